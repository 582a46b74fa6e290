package models

import "gorm.io/gorm"

type Post struct {
	gorm.Model
	UserID        uint      `gorm:"column:user_id;not null" json:"user_id"`
	Content       string    `gorm:"column:content;type:text" json:"content"`
	IsPublic      bool      `gorm:"column:is_public;default:true" json:"is_public"`
	LikesCount    int       `gorm:"column:likes_count;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"column:comments_count;default:0" json:"comments_count"`
	SharesCount   int       `gorm:"column:shares_count;default:0" json:"shares_count"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Images        []Image   `gorm:"foreignKey:PostID" json:"images,omitempty"`
	Comments      []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes         []Like    `gorm:"foreignKey:PostID" json:"likes,omitempty"`
	Shares        []Share   `gorm:"foreignKey:PostID" json:"shares,omitempty"`
}

// Image holds one entry of a post's ordered image list. URL may be an
// uploaded file path, an external URL, or a data URI.
type Image struct {
	gorm.Model
	PostID   uint   `gorm:"column:post_id;not null" json:"post_id"`
	URL      string `gorm:"column:url;type:text;not null" json:"url"`
	Position int    `gorm:"column:position;default:0" json:"position"`
}

type Comment struct {
	gorm.Model
	UserID     uint   `gorm:"column:user_id;not null" json:"user_id"`
	PostID     uint   `gorm:"column:post_id;not null" json:"post_id"`
	Content    string `gorm:"column:content;type:text;not null" json:"content"`
	LikesCount int    `gorm:"column:likes_count;default:0" json:"likes_count"`
	User       *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type Like struct {
	gorm.Model
	UserID uint  `gorm:"column:user_id;not null" json:"user_id"`
	PostID uint  `gorm:"column:post_id;not null" json:"post_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type Share struct {
	gorm.Model
	UserID    uint   `gorm:"column:user_id;not null" json:"user_id"`
	PostID    uint   `gorm:"column:post_id;not null" json:"post_id"`
	ShareText string `gorm:"column:share_text;type:text" json:"share_text"`
	User      *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
