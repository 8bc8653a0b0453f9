package annotation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/canvas"
)

// Broadcaster pushes annotation events to everyone watching a document.
type Broadcaster interface {
	BroadcastToDocument(documentID string, event canvas.Event)
}

type Service struct {
	annotations Repository
	broadcast   Broadcaster
}

func NewService(annotations Repository, broadcast Broadcaster) *Service {
	return &Service{annotations: annotations, broadcast: broadcast}
}

func (s *Service) Create(ctx context.Context, documentID, userID string, req CreateAnnotationRequest) (*domain.Annotation, error) {
	if documentID == "" || userID == "" {
		return nil, ErrValidation
	}
	if !req.Kind.Valid() || req.Page < 1 {
		return nil, ErrValidation
	}
	if err := checkGeometry(req.Kind, req.Points, req.Bounds); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.Annotation{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		Page:        req.Page,
		Kind:        req.Kind,
		Points:      req.Points,
		Bounds:      req.Bounds,
		Text:        req.Text,
		Style:       req.Style,
		CreatedBy:   userID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.annotations.Create(ctx, a); err != nil {
		return nil, err
	}

	s.emit(canvas.EventCreated, *a, userID)
	return a, nil
}

func (s *Service) ListByDocument(ctx context.Context, documentID string) ([]domain.Annotation, error) {
	return s.annotations.ListByDocument(ctx, documentID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Annotation, error) {
	a, err := s.annotations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// Update applies the request onto the stored annotation. Only the creator may
// edit. An update that does not change the durable content (geometry, style,
// text) and touches no metadata is a no-op: no version bump, no broadcast.
func (s *Service) Update(ctx context.Context, id, userID string, req UpdateAnnotationRequest) (*domain.Annotation, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CreatedBy != userID {
		return nil, ErrNotCreator
	}

	before := canvas.Fingerprint(*a)
	metaChanged := false

	if req.Points != nil {
		a.Points = req.Points
	}
	if req.Bounds != nil {
		a.Bounds = req.Bounds
	}
	if req.Text != nil {
		a.Text = *req.Text
	}
	if req.Style != nil {
		a.Style = *req.Style
	}
	if req.Title != nil {
		a.Title = *req.Title
		metaChanged = true
	}
	if req.Description != nil {
		a.Description = *req.Description
		metaChanged = true
	}
	if req.Tags != nil {
		a.Tags = req.Tags
		metaChanged = true
	}

	if err := checkGeometry(a.Kind, a.Points, a.Bounds); err != nil {
		return nil, err
	}

	if canvas.Fingerprint(*a) == before && !metaChanged {
		return a, nil
	}

	if err := s.annotations.Update(ctx, a); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.emit(canvas.EventUpdated, *a, userID)
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.CreatedBy != userID {
		return ErrNotCreator
	}

	err = s.annotations.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.emit(canvas.EventDeleted, *a, userID)
	return nil
}

func (s *Service) emit(eventType string, a domain.Annotation, userID string) {
	if s.broadcast == nil {
		return
	}
	s.broadcast.BroadcastToDocument(a.DocumentID, canvas.Event{
		Type:       eventType,
		Annotation: a,
		UserID:     userID,
		Timestamp:  time.Now().UTC(),
	})
}

// checkGeometry enforces the shape each kind stores: path kinds carry points,
// parametric kinds carry a bounding box, text needs an anchor.
func checkGeometry(kind domain.AnnotationKind, points []domain.PDFPoint, bounds *domain.PDFRect) error {
	switch kind {
	case domain.AnnotationFreehand:
		if len(points) < 2 {
			return ErrValidation
		}
	case domain.AnnotationLine, domain.AnnotationArrow:
		if len(points) != 2 {
			return ErrValidation
		}
	case domain.AnnotationRectangle, domain.AnnotationCircle, domain.AnnotationHighlight:
		if bounds == nil || bounds.Width <= 0 || bounds.Height <= 0 {
			return ErrValidation
		}
	case domain.AnnotationText:
		if len(points) != 1 && bounds == nil {
			return ErrValidation
		}
	}
	return nil
}
