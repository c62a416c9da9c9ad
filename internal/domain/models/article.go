package models

import "time"

// Article is a source article in the catalog. Articles come from two places:
// the articles table and the markdown directory on disk. Rows are mapped into
// this single typed record at the storage boundary so nothing downstream
// branches on representation.
type Article struct {
	ID          string     `json:"id,omitempty" db:"id"`
	Filename    string     `json:"filename" db:"filename"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Status      string     `json:"status,omitempty" db:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
}
