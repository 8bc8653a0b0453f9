package project

import (
	"context"

	"fieldbook/internal/domain"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	Update(ctx context.Context, id string, upd domain.ProjectUpdate) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	SetSupervision(ctx context.Context, id string, supervisorID *string, requested bool) (*domain.Project, error)
	StatsByOwner(ctx context.Context, ownerID string) (*domain.ProjectStats, error)
}
