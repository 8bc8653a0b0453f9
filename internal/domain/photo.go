package domain

import "time"

type Photo struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id" validate:"required"`
	UploadedBy   string    `json:"uploaded_by"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"-"`
	FileURL      string    `json:"file_url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Caption      string    `json:"caption,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
