package diary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/bearing"
)

// Service manages field diary entries. Bearings embedded in an entry are
// stored as DMS text and must validate before the entry is accepted.
type Service struct {
	entries Repository
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

func (s *Service) Create(ctx context.Context, projectID, authorID string, req CreateEntryRequest) (*domain.DiaryEntry, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || projectID == "" || authorID == "" {
		return nil, ErrValidation
	}
	if err := checkBearings(req.Bearings); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryDate := now
	if req.EntryDate != nil {
		entryDate = req.EntryDate.UTC()
	}

	e := &domain.DiaryEntry{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		AuthorID:  authorID,
		EntryDate: entryDate,
		Title:     title,
		Body:      req.Body,
		Bearings:  req.Bearings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]domain.DiaryEntry, error) {
	return s.entries.ListByProject(ctx, projectID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Update applies the request onto the stored entry. Only the author may edit.
func (s *Service) Update(ctx context.Context, id, userID string, req UpdateEntryRequest) (*domain.DiaryEntry, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrValidation
		}
		e.Title = title
	}
	if req.Body != nil {
		e.Body = *req.Body
	}
	if req.EntryDate != nil {
		e.EntryDate = req.EntryDate.UTC()
	}
	if req.Bearings != nil {
		if err := checkBearings(req.Bearings); err != nil {
			return nil, err
		}
		e.Bearings = req.Bearings
	}

	if err := s.entries.Update(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.AuthorID != userID {
		return ErrNotAuthor
	}
	err = s.entries.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func checkBearings(texts []string) error {
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return ErrInvalidBearing
		}
		if !bearing.Validate(t, bearing.FormatDMS) {
			return ErrInvalidBearing
		}
	}
	return nil
}
