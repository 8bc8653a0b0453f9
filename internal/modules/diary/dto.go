package diary

import "time"

type CreateEntryRequest struct {
	Title     string     `json:"title" binding:"required,max=200" validate:"required,max=200"`
	Body      string     `json:"body"`
	EntryDate *time.Time `json:"entry_date"`
	Bearings  []string   `json:"bearings" validate:"dive,bearing_dms"`
}

type UpdateEntryRequest struct {
	Title     *string    `json:"title"`
	Body      *string    `json:"body"`
	EntryDate *time.Time `json:"entry_date"`
	Bearings  []string   `json:"bearings"`
}
