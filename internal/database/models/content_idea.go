package models

import (
	"time"
)

// IdeaStatus represents the lifecycle state of a content idea
type IdeaStatus string

const (
	// IdeaStatusPending means the idea is waiting to be turned into a post
	IdeaStatusPending IdeaStatus = "pending"
	// IdeaStatusProcessed means a blog post has been generated from the idea
	IdeaStatusProcessed IdeaStatus = "processed"
)

// IdeaSourceGoogleAlerts identifies ideas derived from Google Alert emails
const IdeaSourceGoogleAlerts = "google_alerts"

// ContentIdea represents a structured brief for a future blog post
type ContentIdea struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"size:500;not null" json:"title"`
	Slug              string    `gorm:"size:100;index" json:"slug"`
	Source            string    `gorm:"size:50;not null" json:"source"`
	Topic             string    `gorm:"size:255" json:"topic"`
	Urgency           string    `gorm:"size:50" json:"urgency"`
	AlertQuery        string    `gorm:"size:255" json:"alert_query"`
	AlertDate         time.Time `json:"alert_date"`
	OriginalURL       string    `gorm:"size:1000" json:"original_url"`
	SourceTitle       string    `gorm:"size:500" json:"source_title"`
	SourceSnippet     string    `gorm:"type:text" json:"source_snippet"`
	TargetKeywords    string    `gorm:"type:text" json:"target_keywords"` // JSON array stored as string
	TargetAudience    string    `gorm:"size:255" json:"target_audience"`
	SearchIntent      string    `gorm:"size:100" json:"search_intent"`
	SuggestedTitle    string    `gorm:"size:500" json:"suggested_title"`
	SuggestedOutline  string    `gorm:"type:text" json:"suggested_outline"` // opaque JSON from the model
	WordCountEstimate int       `json:"word_count_estimate"`
	SEOPriorityScore  float64   `gorm:"index" json:"seo_priority_score"`
	Status            string    `gorm:"size:20;index;default:pending" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
