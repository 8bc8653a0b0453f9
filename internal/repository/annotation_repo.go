package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"fieldbook/internal/domain"
)

type AnnotationRepository struct {
	db *gorm.DB
}

func NewAnnotationRepository(db *gorm.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

// Geometry and style are stored as JSON blobs; only the PDF-space
// representation is persisted. Canvas positions are a render-time concern.
type annotationModel struct {
	ID          string          `gorm:"column:id;primaryKey"`
	DocumentID  string          `gorm:"column:document_id;index:idx_annotations_doc_page,priority:1"`
	Page        int             `gorm:"column:page;index:idx_annotations_doc_page,priority:2"`
	Kind        string          `gorm:"column:kind"`
	Points      json.RawMessage `gorm:"column:points"`
	Bounds      json.RawMessage `gorm:"column:bounds"`
	Text        *string         `gorm:"column:text"`
	Style       json.RawMessage `gorm:"column:style"`
	CreatedBy   string          `gorm:"column:created_by"`
	Title       *string         `gorm:"column:title"`
	Description *string         `gorm:"column:description"`
	Tags        json.RawMessage `gorm:"column:tags"`
	Version     int             `gorm:"column:version"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (annotationModel) TableName() string { return "annotations" }

func toDomainAnnotation(m annotationModel) (*domain.Annotation, error) {
	a := &domain.Annotation{
		ID:          m.ID,
		DocumentID:  m.DocumentID,
		Page:        m.Page,
		Kind:        domain.AnnotationKind(m.Kind),
		Text:        strOrEmpty(m.Text),
		CreatedBy:   m.CreatedBy,
		Title:       strOrEmpty(m.Title),
		Description: strOrEmpty(m.Description),
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if len(m.Points) > 0 {
		if err := json.Unmarshal(m.Points, &a.Points); err != nil {
			return nil, err
		}
	}
	if len(m.Bounds) > 0 {
		var b domain.PDFRect
		if err := json.Unmarshal(m.Bounds, &b); err != nil {
			return nil, err
		}
		a.Bounds = &b
	}
	if len(m.Style) > 0 {
		if err := json.Unmarshal(m.Style, &a.Style); err != nil {
			return nil, err
		}
	}
	if len(m.Tags) > 0 {
		if err := json.Unmarshal(m.Tags, &a.Tags); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func toAnnotationModel(a *domain.Annotation) (annotationModel, error) {
	m := annotationModel{
		ID:          a.ID,
		DocumentID:  a.DocumentID,
		Page:        a.Page,
		Kind:        string(a.Kind),
		Text:        nullableString(a.Text),
		CreatedBy:   a.CreatedBy,
		Title:       nullableString(a.Title),
		Description: nullableString(a.Description),
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	var err error
	if len(a.Points) > 0 {
		if m.Points, err = json.Marshal(a.Points); err != nil {
			return m, err
		}
	}
	if a.Bounds != nil {
		if m.Bounds, err = json.Marshal(a.Bounds); err != nil {
			return m, err
		}
	}
	if m.Style, err = json.Marshal(a.Style); err != nil {
		return m, err
	}
	if len(a.Tags) > 0 {
		if m.Tags, err = json.Marshal(a.Tags); err != nil {
			return m, err
		}
	}
	return m, nil
}

func (r *AnnotationRepository) Create(ctx context.Context, a *domain.Annotation) error {
	m, err := toAnnotationModel(a)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	return nil
}

func (r *AnnotationRepository) GetByID(ctx context.Context, id string) (*domain.Annotation, error) {
	var m annotationModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAnnotation(m)
}

func (r *AnnotationRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Annotation, error) {
	var rows []annotationModel
	tx := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("page ASC, created_at ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Annotation, 0, len(rows))
	for _, m := range rows {
		a, err := toDomainAnnotation(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// Update replaces the stored annotation and bumps its version counter.
func (r *AnnotationRepository) Update(ctx context.Context, a *domain.Annotation) error {
	a.Version++
	a.UpdatedAt = time.Now().UTC()
	m, err := toAnnotationModel(a)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Model(&annotationModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"points":      m.Points,
		"bounds":      m.Bounds,
		"text":        m.Text,
		"style":       m.Style,
		"title":       m.Title,
		"description": m.Description,
		"tags":        m.Tags,
		"version":     m.Version,
		"updated_at":  m.UpdatedAt,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AnnotationRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&annotationModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
