package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "E"
	DifficultyMedium Difficulty = "M"
	DifficultyHard   Difficulty = "H"
)

func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return ""
	}
}

type Post struct {
	ID          string       `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    string       `gorm:"type:uuid;not null;index" json:"author_id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	ImageURL    string       `gorm:"type:varchar(500)" json:"image_url"`
	ImageKey    string       `gorm:"type:varchar(500)" json:"-"`
	Description string       `gorm:"type:text" json:"description"`
	Difficulty  Difficulty   `gorm:"type:varchar(1);not null;default:'E'" json:"difficulty"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	PublishedAt *time.Time   `gorm:"index" json:"published_at"`
	Ingredients []Ingredient `gorm:"many2many:post_ingredients;" json:"ingredients"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// IsPublished reports whether the post is visible to everyone at now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(now)
}

// Publish stamps the post as published by userID. Publishing again only
// refreshes the timestamp.
func (p *Post) Publish(userID string, now time.Time) {
	p.PublishedAt = &now
	p.AuthorID = userID
}

// VisibleTo reports whether userID may see the post: published posts are
// public, drafts belong to their author only.
func (p *Post) VisibleTo(userID string, now time.Time) bool {
	return p.IsPublished(now) || (userID != "" && p.AuthorID == userID)
}
