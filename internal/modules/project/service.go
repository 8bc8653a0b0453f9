package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"fieldbook/internal/domain"
)

// Service is the remote store behind the projectstore manager: plain CRUD
// plus the supervision linkage and the per-user aggregate.
type Service struct {
	projects Repository
}

func NewService(projects Repository) *Service {
	return &Service{projects: projects}
}

func (s *Service) ListByOwner(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.projects.ListByOwner(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || p.OwnerID == "" {
		return nil, ErrValidation
	}
	if p.DueDate != nil && p.StartDate != nil && p.DueDate.Before(*p.StartDate) {
		return nil, ErrValidation
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.Phase = domain.PhaseSetup
	p.Status = domain.StatusActive
	p.SupervisionRequested = false
	p.SupervisorID = nil
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.projects.Create(ctx, &p); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_projects_owner_title" {
				return nil, ErrDuplicateTitle
			}
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, upd domain.ProjectUpdate) (*domain.Project, error) {
	if upd.Phase != nil && !upd.Phase.Valid() {
		return nil, ErrValidation
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, ErrValidation
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrValidation
	}

	p, err := s.projects.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.projects.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) RequestSupervision(ctx context.Context, id, supervisorID string) (*domain.Project, error) {
	if supervisorID == "" {
		return nil, ErrValidation
	}
	p, err := s.projects.SetSupervision(ctx, id, &supervisorID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) RemoveSupervision(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.SetSupervision(ctx, id, nil, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) StatsByOwner(ctx context.Context, userID string) (*domain.ProjectStats, error) {
	return s.projects.StatsByOwner(ctx, userID)
}

// VerifyAccess checks that userID may act on the project: the owner always
// can, the linked supervisor can read and update but not delete.
func (s *Service) VerifyAccess(ctx context.Context, id, userID string, write bool) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID == userID {
		return nil
	}
	if !write && p.SupervisorID != nil && *p.SupervisorID == userID {
		return nil
	}
	return ErrForbidden
}
