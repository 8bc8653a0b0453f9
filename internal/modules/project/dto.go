package project

import (
	"time"

	"fieldbook/internal/domain"
)

type CreateProjectRequest struct {
	Title               string     `json:"title" binding:"required"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	SupervisionRequired bool       `json:"supervision_required"`
	StartDate           *time.Time `json:"start_date"`
	DueDate             *time.Time `json:"due_date"`
}

func (r CreateProjectRequest) toProject(ownerID string) domain.Project {
	return domain.Project{
		Title:               r.Title,
		Description:         r.Description,
		Location:            r.Location,
		OwnerID:             ownerID,
		SupervisionRequired: r.SupervisionRequired,
		StartDate:           r.StartDate,
		DueDate:             r.DueDate,
	}
}

type UpdateProjectRequest struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Location            *string    `json:"location"`
	SupervisionRequired *bool      `json:"supervision_required"`
	StartDate           *time.Time `json:"start_date"`
	DueDate             *time.Time `json:"due_date"`
}

func (r UpdateProjectRequest) toUpdate() domain.ProjectUpdate {
	return domain.ProjectUpdate{
		Title:               r.Title,
		Description:         r.Description,
		Location:            r.Location,
		SupervisionRequired: r.SupervisionRequired,
		StartDate:           r.StartDate,
		DueDate:             r.DueDate,
	}
}

type PhaseRequest struct {
	Phase domain.ProjectPhase `json:"phase" binding:"required"`
}

type StatusRequest struct {
	Status domain.ProjectStatus `json:"status" binding:"required"`
}

type SupervisionRequest struct {
	SupervisorID string `json:"supervisor_id" binding:"required"`
}
