package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking references exactly one of Destination or Experience. TotalPriceCents
// is computed server-side from the catalog unit price; client-submitted
// prices are never stored.
type Booking struct {
	gorm.Model
	UserID          uint         `gorm:"column:user_id;not null" json:"user_id"`
	DestinationID   *uint        `gorm:"column:destination_id" json:"destination_id,omitempty"`
	ExperienceID    *uint        `gorm:"column:experience_id" json:"experience_id,omitempty"`
	Date            time.Time    `gorm:"column:date;not null" json:"date"`
	Persons         int          `gorm:"column:persons;not null" json:"persons"`
	TotalPriceCents int64        `gorm:"column:total_price_cents;not null" json:"total_price_cents"`
	Status          string       `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	User            *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Destination     *Destination `gorm:"foreignKey:DestinationID" json:"destination,omitempty"`
	Experience      *Experience  `gorm:"foreignKey:ExperienceID" json:"experience,omitempty"`
}
