package diary

import (
	"context"

	"fieldbook/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, e *domain.DiaryEntry) error
	GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.DiaryEntry, error)
	Update(ctx context.Context, e *domain.DiaryEntry) error
	Delete(ctx context.Context, id string) error
}

// ProjectAccess is satisfied by the project service.
type ProjectAccess interface {
	VerifyAccess(ctx context.Context, id, userID string, write bool) error
}
