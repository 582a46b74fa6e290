package models

import "gorm.io/gorm"

// Catalog entities are seed-time data with no write path after startup.
// PriceCents is the per-person unit price in minor units; RatingTenths is
// the rating in tenths of a star (47 == 4.7).

type Destination struct {
	gorm.Model
	Name         string `gorm:"column:name;size:255;not null" json:"name"`
	Country      string `gorm:"column:country;size:100;not null" json:"country"`
	Location     string `gorm:"column:location;size:255" json:"location"`
	Category     string `gorm:"column:category;size:50" json:"category"`
	Description  string `gorm:"column:description;type:text" json:"description"`
	PriceCents   int64  `gorm:"column:price_cents;not null" json:"price_cents"`
	RatingTenths int    `gorm:"column:rating_tenths;default:0" json:"rating_tenths"`
	ImageURL     string `gorm:"column:image_url;type:text" json:"image_url"`
	Featured     bool   `gorm:"column:featured;default:false" json:"featured"`
}

type Experience struct {
	gorm.Model
	Name          string `gorm:"column:name;size:255;not null" json:"name"`
	Country       string `gorm:"column:country;size:100;not null" json:"country"`
	Location      string `gorm:"column:location;size:255" json:"location"`
	Category      string `gorm:"column:category;size:50" json:"category"`
	Description   string `gorm:"column:description;type:text" json:"description"`
	PriceCents    int64  `gorm:"column:price_cents;not null" json:"price_cents"`
	RatingTenths  int    `gorm:"column:rating_tenths;default:0" json:"rating_tenths"`
	ImageURL      string `gorm:"column:image_url;type:text" json:"image_url"`
	DurationHours int    `gorm:"column:duration_hours;default:0" json:"duration_hours"`
	Trending      bool   `gorm:"column:trending;default:false" json:"trending"`
}
