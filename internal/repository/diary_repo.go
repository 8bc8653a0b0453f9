package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"fieldbook/internal/domain"
)

type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

type diaryEntryModel struct {
	ID        string          `gorm:"column:id;primaryKey"`
	ProjectID string          `gorm:"column:project_id;index"`
	AuthorID  string          `gorm:"column:author_id"`
	EntryDate time.Time       `gorm:"column:entry_date"`
	Title     string          `gorm:"column:title"`
	Body      string          `gorm:"column:body;type:text"`
	Bearings  json.RawMessage `gorm:"column:bearings"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (diaryEntryModel) TableName() string { return "diary_entries" }

func toDomainDiaryEntry(m diaryEntryModel) (*domain.DiaryEntry, error) {
	e := &domain.DiaryEntry{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		AuthorID:  m.AuthorID,
		EntryDate: m.EntryDate,
		Title:     m.Title,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if len(m.Bearings) > 0 {
		if err := json.Unmarshal(m.Bearings, &e.Bearings); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (r *DiaryRepository) Create(ctx context.Context, e *domain.DiaryEntry) error {
	m := diaryEntryModel{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		AuthorID:  e.AuthorID,
		EntryDate: e.EntryDate,
		Title:     e.Title,
		Body:      e.Body,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if len(e.Bearings) > 0 {
		b, err := json.Marshal(e.Bearings)
		if err != nil {
			return err
		}
		m.Bearings = b
	}
	tx := r.db.WithContext(ctx).Create(&m)
	return tx.Error
}

func (r *DiaryRepository) GetByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	var m diaryEntryModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainDiaryEntry(m)
}

func (r *DiaryRepository) ListByProject(ctx context.Context, projectID string) ([]domain.DiaryEntry, error) {
	var rows []diaryEntryModel
	tx := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("entry_date DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.DiaryEntry, 0, len(rows))
	for _, m := range rows {
		e, err := toDomainDiaryEntry(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *DiaryRepository) Update(ctx context.Context, e *domain.DiaryEntry) error {
	updates := map[string]any{
		"title":      e.Title,
		"body":       e.Body,
		"entry_date": e.EntryDate,
		"updated_at": time.Now().UTC(),
	}
	if len(e.Bearings) > 0 {
		b, err := json.Marshal(e.Bearings)
		if err != nil {
			return err
		}
		updates["bearings"] = b
	} else {
		updates["bearings"] = nil
	}
	tx := r.db.WithContext(ctx).Model(&diaryEntryModel{}).Where("id = ?", e.ID).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&diaryEntryModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
