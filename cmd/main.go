package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/voyago/voyago-server/cmd/api"
	"github.com/voyago/voyago-server/cmd/models"
	"github.com/voyago/voyago-server/db"
	"github.com/voyago/voyago-server/events"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations()
			return
		case "seed":
			runSeed()
			return
		case "clear-db":
			runDatabaseClear()
			return
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	startServer()
}

func openDB() *gorm.DB {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	return DB
}

func closeDB(DB *gorm.DB) {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Error retrieving database handle: %v", err)
		return
	}
	sqlDB.Close()
	log.Println("Database connection closed")
}

func runMigrations() {
	DB := openDB()
	defer closeDB(DB)
	log.Println("Connected to the database for migrations")

	if err := performMigrations(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	log.Println("Migrations completed successfully")
}

func performMigrations(DB *gorm.DB) error {
	migrations := []struct {
		model interface{}
		name  string
	}{
		{&models.User{}, "User"},
		{&models.Follow{}, "Follow"},
		{&models.Post{}, "Post"},
		{&models.Image{}, "Image"},
		{&models.Comment{}, "Comment"},
		{&models.Like{}, "Like"},
		{&models.Share{}, "Share"},
		{&models.Destination{}, "Destination"},
		{&models.Experience{}, "Experience"},
		{&models.Booking{}, "Booking"},
	}

	log.Println("Starting database migrations...")
	for _, m := range migrations {
		log.Printf("Migrating %s table...", m.name)
		if err := DB.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	if err := createDirectoryIfNotExist("uploads/images"); err != nil {
		return err
	}

	log.Println("All migrations and directory setup completed successfully")
	return nil
}

func createDirectoryIfNotExist(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", path, err)
		}
	}
	return nil
}

func runSeed() {
	DB := openDB()
	defer closeDB(DB)

	if err := db.SeedCatalog(DB); err != nil {
		log.Fatalf("Seed error: %v", err)
	}
	log.Println("Catalog seeded successfully")
}

func startServer() {
	DB := openDB()
	defer closeDB(DB)
	log.Println("Connected to the database")

	pub := events.NewPublisherFromEnv()
	defer pub.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	server := api.NewApiServer(":"+port, DB, pub)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on port %s", port)

	<-quit
	log.Println("Shutting down server...")
}

func runDatabaseClear() {
	DB := openDB()
	defer closeDB(DB)

	var confirmation string
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		log.Println("Database clearing cancelled.")
		return
	}

	tables := []interface{}{
		&models.Booking{},
		&models.Like{},
		&models.Share{},
		&models.Comment{},
		&models.Image{},
		&models.Post{},
		&models.Follow{},
		&models.Experience{},
		&models.Destination{},
		&models.User{},
	}

	log.Println("Dropping tables...")
	for _, table := range tables {
		if err := DB.Migrator().DropTable(table); err != nil {
			log.Printf("Warning dropping table %T: %v", table, err)
		} else {
			log.Printf("Table %T dropped", table)
		}
	}

	log.Println("Database cleared successfully")
}
