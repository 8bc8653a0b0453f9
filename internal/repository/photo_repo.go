package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fieldbook/internal/domain"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

type photoModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	ProjectID    string    `gorm:"column:project_id;index"`
	UploadedBy   string    `gorm:"column:uploaded_by"`
	OriginalName string    `gorm:"column:original_name"`
	FilePath     string    `gorm:"column:file_path"`
	FileURL      string    `gorm:"column:file_url"`
	MimeType     string    `gorm:"column:mime_type"`
	Size         int64     `gorm:"column:size"`
	Caption      *string   `gorm:"column:caption"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (photoModel) TableName() string { return "photos" }

func toDomainPhoto(m photoModel) *domain.Photo {
	return &domain.Photo{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		UploadedBy:   m.UploadedBy,
		OriginalName: m.OriginalName,
		FilePath:     m.FilePath,
		FileURL:      m.FileURL,
		MimeType:     m.MimeType,
		Size:         m.Size,
		Caption:      strOrEmpty(m.Caption),
		CreatedAt:    m.CreatedAt,
	}
}

func (r *PhotoRepository) Create(ctx context.Context, p *domain.Photo) error {
	m := photoModel{
		ID:           p.ID,
		ProjectID:    p.ProjectID,
		UploadedBy:   p.UploadedBy,
		OriginalName: p.OriginalName,
		FilePath:     p.FilePath,
		FileURL:      p.FileURL,
		MimeType:     p.MimeType,
		Size:         p.Size,
		Caption:      nullableString(p.Caption),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPhoto(m)
	return nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*domain.Photo, error) {
	var m photoModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPhoto(m), nil
}

func (r *PhotoRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Photo, error) {
	var rows []photoModel
	tx := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Photo, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPhoto(m))
	}
	return out, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&photoModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
