package annotation

import (
	"context"

	"fieldbook/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, a *domain.Annotation) error
	GetByID(ctx context.Context, id string) (*domain.Annotation, error)
	ListByDocument(ctx context.Context, documentID string) ([]domain.Annotation, error)
	Update(ctx context.Context, a *domain.Annotation) error
	Delete(ctx context.Context, id string) error
}
