package models

import "time"

// Post is a generated blog post assembled from a source article. The content
// string is the assembled document: hook, summary, date stamp, generated body
// and CTA, disclaimer - in that order, nothing after the disclaimer.
type Post struct {
	ID            string    `json:"id" db:"id"`
	SessionID     string    `json:"session_id" db:"session_id"`
	SourceArticle string    `json:"source_article" db:"source_article"`
	Filename      string    `json:"filename" db:"filename"`
	Content       string    `json:"content" db:"content"`
	Tone          string    `json:"tone" db:"tone"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ChatTurn is one entry in the per-session review chat history. IsBlog marks
// turns whose content is a full blog document rather than commentary.
type ChatTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	IsBlog    bool      `json:"content_is_blog"`
	Timestamp time.Time `json:"timestamp"`
}
