package photo

import (
	"context"

	"fieldbook/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, p *domain.Photo) error
	GetByID(ctx context.Context, id string) (*domain.Photo, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Photo, error)
	Delete(ctx context.Context, id string) error
}

// ProjectAccess is how the photo handlers check project visibility; satisfied
// by the project service.
type ProjectAccess interface {
	VerifyAccess(ctx context.Context, id, userID string, write bool) error
}
