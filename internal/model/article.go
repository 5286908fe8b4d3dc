package model

import "time"

// Article data model. Columns are snake_case in the articles table and
// camelCase on the wire; this struct is the only place the two meet.
type Article struct {
	ID        int64     `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Slug      string    `json:"slug"      db:"slug"`
	Summary   string    `json:"summary"   db:"summary"`
	Category  string    `json:"category"  db:"category"`
	Content   string    `json:"content"   db:"content"`
	ImageURL  string    `json:"imageUrl"  db:"image_url"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ArticleFields carries the writable part of an Article. Optional fields are
// pointers so an update can tell "absent" from "set to empty".
type ArticleFields struct {
	Title     string
	Slug      string
	Content   string
	Summary   *string
	Category  *string
	ImageURL  *string
	Published *bool
}

// ListFilter narrows and pages the article listing.
type ListFilter struct {
	Limit     int
	Offset    int
	Category  string
	Published *bool
	Query     string
}
