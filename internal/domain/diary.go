package domain

import "time"

// DiaryEntry is one day's field notes for a project. Body holds the rich-text
// content as stored by the editor; Bearings are the values captured through
// the embedded bearing widgets, kept in DMS form.
type DiaryEntry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id" validate:"required"`
	AuthorID  string    `json:"author_id"`
	EntryDate time.Time `json:"entry_date"`
	Title     string    `json:"title" validate:"required,max=200"`
	Body      string    `json:"body"`
	Bearings  []string  `json:"bearings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
