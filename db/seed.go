package db

import (
	"fmt"
	"log"

	"github.com/voyago/voyago-server/cmd/models"
	"gorm.io/gorm"
)

// SeedCatalog loads the destination and experience catalog. Safe to run more
// than once: rows are matched by name and only created when missing.
func SeedCatalog(DB *gorm.DB) error {
	destinations := []models.Destination{
		{Name: "Santorini", Country: "Greece", Location: "Cyclades, Aegean Sea", Category: "beach", Description: "Whitewashed villages over a volcanic caldera.", PriceCents: 129900, RatingTenths: 48, ImageURL: "https://images.voyago.app/destinations/santorini.jpg", Featured: true},
		{Name: "Kyoto", Country: "Japan", Location: "Kansai, Honshu", Category: "culture", Description: "Temples, gardens and the old imperial capital.", PriceCents: 149900, RatingTenths: 49, ImageURL: "https://images.voyago.app/destinations/kyoto.jpg", Featured: true},
		{Name: "Banff", Country: "Canada", Location: "Alberta, Rocky Mountains", Category: "mountain", Description: "Turquoise lakes and alpine trails.", PriceCents: 99900, RatingTenths: 47, ImageURL: "https://images.voyago.app/destinations/banff.jpg", Featured: true},
		{Name: "Marrakech", Country: "Morocco", Location: "Al Haouz", Category: "city", Description: "Souks, riads and the Atlas foothills.", PriceCents: 79900, RatingTenths: 45, ImageURL: "https://images.voyago.app/destinations/marrakech.jpg"},
		{Name: "Queenstown", Country: "New Zealand", Location: "Otago, South Island", Category: "adventure", Description: "Adventure capital on Lake Wakatipu.", PriceCents: 159900, RatingTenths: 47, ImageURL: "https://images.voyago.app/destinations/queenstown.jpg"},
		{Name: "Lisbon", Country: "Portugal", Location: "Estremadura", Category: "city", Description: "Hills, trams and Atlantic light.", PriceCents: 69900, RatingTenths: 46, ImageURL: "https://images.voyago.app/destinations/lisbon.jpg"},
		{Name: "Tulum", Country: "Mexico", Location: "Quintana Roo, Yucatan", Category: "beach", Description: "Mayan ruins above Caribbean sand.", PriceCents: 89900, RatingTenths: 44, ImageURL: "https://images.voyago.app/destinations/tulum.jpg"},
		{Name: "Cappadocia", Country: "Turkey", Location: "Nevsehir, Central Anatolia", Category: "nature", Description: "Fairy chimneys and sunrise balloons.", PriceCents: 84900, RatingTenths: 48, ImageURL: "https://images.voyago.app/destinations/cappadocia.jpg"},
	}

	experiences := []models.Experience{
		{Name: "Hot Air Balloon Sunrise", Country: "Turkey", Location: "Goreme, Cappadocia", Category: "adventure", Description: "Dawn flight over the valleys.", PriceCents: 24900, RatingTenths: 49, ImageURL: "https://images.voyago.app/experiences/balloon.jpg", DurationHours: 3, Trending: true},
		{Name: "Tea Ceremony Workshop", Country: "Japan", Location: "Gion, Kyoto", Category: "culture", Description: "Traditional ceremony with a tea master.", PriceCents: 8900, RatingTenths: 47, ImageURL: "https://images.voyago.app/experiences/tea.jpg", DurationHours: 2, Trending: true},
		{Name: "Catamaran Caldera Cruise", Country: "Greece", Location: "Santorini", Category: "beach", Description: "Sail the caldera with swim stops.", PriceCents: 15900, RatingTenths: 46, ImageURL: "https://images.voyago.app/experiences/catamaran.jpg", DurationHours: 5, Trending: true},
		{Name: "Atlas Mountains Day Trek", Country: "Morocco", Location: "Imlil", Category: "mountain", Description: "Guided trek through Berber villages.", PriceCents: 11900, RatingTenths: 45, ImageURL: "https://images.voyago.app/experiences/atlas.jpg", DurationHours: 8},
		{Name: "Shotover Canyon Swing", Country: "New Zealand", Location: "Queenstown", Category: "adventure", Description: "109m cliff jump over the canyon.", PriceCents: 17900, RatingTenths: 48, ImageURL: "https://images.voyago.app/experiences/canyon.jpg", DurationHours: 2},
		{Name: "Fado Night & Dinner", Country: "Portugal", Location: "Alfama, Lisbon", Category: "culture", Description: "Live fado in a candlelit tavern.", PriceCents: 7900, RatingTenths: 44, ImageURL: "https://images.voyago.app/experiences/fado.jpg", DurationHours: 3},
		{Name: "Cenote Dive", Country: "Mexico", Location: "Tulum", Category: "water", Description: "Cavern dive in a freshwater cenote.", PriceCents: 13900, RatingTenths: 46, ImageURL: "https://images.voyago.app/experiences/cenote.jpg", DurationHours: 4},
		{Name: "Lake Louise Canoe Morning", Country: "Canada", Location: "Banff National Park", Category: "nature", Description: "Paddle the glacier lake before the crowds.", PriceCents: 9900, RatingTenths: 47, ImageURL: "https://images.voyago.app/experiences/canoe.jpg", DurationHours: 2},
	}

	log.Println("Seeding destination catalog...")
	for i := range destinations {
		if err := DB.Where("name = ?", destinations[i].Name).
			FirstOrCreate(&destinations[i]).Error; err != nil {
			return fmt.Errorf("error seeding destination %s: %w", destinations[i].Name, err)
		}
	}

	log.Println("Seeding experience catalog...")
	for i := range experiences {
		if err := DB.Where("name = ?", experiences[i].Name).
			FirstOrCreate(&experiences[i]).Error; err != nil {
			return fmt.Errorf("error seeding experience %s: %w", experiences[i].Name, err)
		}
	}

	log.Printf("Catalog ready: %d destinations, %d experiences", len(destinations), len(experiences))
	return nil
}
