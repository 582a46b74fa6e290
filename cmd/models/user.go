package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"column:username;size:50;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	Bio          string `gorm:"column:bio;type:text" json:"bio"`
	ProfileImage string `gorm:"column:profile_image;type:text" json:"profile_image"`
	CoverImage   string `gorm:"column:cover_image;type:text" json:"cover_image"`
	IsAdmin      bool   `gorm:"column:is_admin;default:false" json:"is_admin"`
	IsPremium    bool   `gorm:"column:is_premium;default:false" json:"is_premium"`
}

// Follow is a directed edge: Follower follows Following. The composite
// unique index rejects duplicate edges at the schema level, so a double
// click or a retry race cannot create two rows for the same pair.
// Deletes are hard: a soft-deleted row would keep occupying the unique
// index and block the pair from ever following again.
type Follow struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  uint      `gorm:"column:follower_id;not null;index:idx_follow_pair,unique" json:"follower_id"`
	FollowingID uint      `gorm:"column:following_id;not null;index:idx_follow_pair,unique" json:"following_id"`
	Follower    *User     `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following   *User     `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

func (Follow) TableName() string {
	return "follows"
}
