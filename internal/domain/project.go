package domain

import "time"

type ProjectPhase string

const (
	PhaseSetup     ProjectPhase = "setup"
	PhaseFieldwork ProjectPhase = "fieldwork"
	PhaseReview    ProjectPhase = "review"
)

func (p ProjectPhase) Valid() bool {
	switch p {
	case PhaseSetup, PhaseFieldwork, PhaseReview:
		return true
	}
	return false
}

type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

type Project struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title" validate:"required,max=200"`
	Description          string        `json:"description,omitempty"`
	Location             string        `json:"location,omitempty"`
	OwnerID              string        `json:"owner_id" validate:"required"`
	SupervisorID         *string       `json:"supervisor_id,omitempty"`
	Phase                ProjectPhase  `json:"phase"`
	Status               ProjectStatus `json:"status"`
	SupervisionRequired  bool          `json:"supervision_required"`
	SupervisionRequested bool          `json:"supervision_requested"`
	StartDate            *time.Time    `json:"start_date,omitempty"`
	DueDate              *time.Time    `json:"due_date,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Title               *string        `json:"title,omitempty"`
	Description         *string        `json:"description,omitempty"`
	Location            *string        `json:"location,omitempty"`
	Phase               *ProjectPhase  `json:"phase,omitempty"`
	Status              *ProjectStatus `json:"status,omitempty"`
	SupervisionRequired *bool          `json:"supervision_required,omitempty"`
	StartDate           *time.Time     `json:"start_date,omitempty"`
	DueDate             *time.Time     `json:"due_date,omitempty"`
}

// ProjectStats is the aggregate returned by the stats endpoint, one row per user.
type ProjectStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Archived  int64 `json:"archived"`
	Fieldwork int64 `json:"fieldwork"`
	InReview  int64 `json:"in_review"`
}
