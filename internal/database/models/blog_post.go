package models

import (
	"time"
)

// PostStatusDraft is the status every generated post is created with.
// Publishing is a human decision outside this system.
const PostStatusDraft = "draft"

// BlogPost represents a fully generated draft post with SEO metadata
type BlogPost struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:500;not null" json:"title"`
	Slug            string    `gorm:"size:80;index" json:"slug"`
	Excerpt         string    `gorm:"size:500" json:"excerpt"`
	Content         string    `gorm:"type:text" json:"content"`
	MetaTitle       string    `gorm:"size:500" json:"meta_title"`
	MetaDescription string    `gorm:"size:500" json:"meta_description"`
	Keywords        string    `gorm:"type:text" json:"keywords"` // JSON array stored as string
	Category        string    `gorm:"size:255" json:"category"`
	CategorySlug    string    `gorm:"size:255" json:"category_slug"`
	ReadingTime     int       `json:"reading_time"`
	AuthorName      string    `gorm:"size:255" json:"author_name"`
	Status          string    `gorm:"size:20;index;default:draft" json:"status"`
	SourceIdeaID    uint      `gorm:"index" json:"source_idea_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
