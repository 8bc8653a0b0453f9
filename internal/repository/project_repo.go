package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fieldbook/internal/domain"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type projectModel struct {
	ID                   string     `gorm:"column:id;primaryKey"`
	Title                string     `gorm:"column:title;index:idx_projects_owner_title,unique,priority:2"`
	Description          *string    `gorm:"column:description"`
	Location             *string    `gorm:"column:location"`
	OwnerID              string     `gorm:"column:owner_id;index:idx_projects_owner_title,unique,priority:1"`
	SupervisorID         *string    `gorm:"column:supervisor_id"`
	Phase                string     `gorm:"column:phase"`
	Status               string     `gorm:"column:status"`
	SupervisionRequired  bool       `gorm:"column:supervision_required"`
	SupervisionRequested bool       `gorm:"column:supervision_requested"`
	StartDate            *time.Time `gorm:"column:start_date"`
	DueDate              *time.Time `gorm:"column:due_date"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

func toDomainProject(m projectModel) *domain.Project {
	return &domain.Project{
		ID:                   m.ID,
		Title:                m.Title,
		Description:          strOrEmpty(m.Description),
		Location:             strOrEmpty(m.Location),
		OwnerID:              m.OwnerID,
		SupervisorID:         m.SupervisorID,
		Phase:                domain.ProjectPhase(m.Phase),
		Status:               domain.ProjectStatus(m.Status),
		SupervisionRequired:  m.SupervisionRequired,
		SupervisionRequested: m.SupervisionRequested,
		StartDate:            m.StartDate,
		DueDate:              m.DueDate,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func toProjectModel(p *domain.Project) projectModel {
	return projectModel{
		ID:                   p.ID,
		Title:                p.Title,
		Description:          nullableString(p.Description),
		Location:             nullableString(p.Location),
		OwnerID:              p.OwnerID,
		SupervisorID:         p.SupervisorID,
		Phase:                string(p.Phase),
		Status:               string(p.Status),
		SupervisionRequired:  p.SupervisionRequired,
		SupervisionRequested: p.SupervisionRequested,
		StartDate:            p.StartDate,
		DueDate:              p.DueDate,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	m := toProjectModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProject(m)
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var m projectModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProject(m), nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	var rows []projectModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Project, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProject(m))
	}
	return out, nil
}

// Update applies the non-nil fields of upd and returns the updated row.
func (r *ProjectRepository) Update(ctx context.Context, id string, upd domain.ProjectUpdate) (*domain.Project, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Location != nil {
		updates["location"] = *upd.Location
	}
	if upd.Phase != nil {
		updates["phase"] = string(*upd.Phase)
	}
	if upd.Status != nil {
		updates["status"] = string(*upd.Status)
	}
	if upd.SupervisionRequired != nil {
		updates["supervision_required"] = *upd.SupervisionRequired
	}
	if upd.StartDate != nil {
		updates["start_date"] = *upd.StartDate
	}
	if upd.DueDate != nil {
		updates["due_date"] = *upd.DueDate
	}

	tx := r.db.WithContext(ctx).Model(&projectModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&projectModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetSupervision updates the supervisor linkage fields in one statement.
func (r *ProjectRepository) SetSupervision(ctx context.Context, id string, supervisorID *string, requested bool) (*domain.Project, error) {
	tx := r.db.WithContext(ctx).Model(&projectModel{}).Where("id = ?", id).Updates(map[string]any{
		"supervisor_id":         supervisorID,
		"supervision_requested": requested,
		"updated_at":            time.Now().UTC(),
	})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// StatsByOwner aggregates per-user project counts in a single query.
func (r *ProjectRepository) StatsByOwner(ctx context.Context, ownerID string) (*domain.ProjectStats, error) {
	var stats domain.ProjectStats
	q := `
SELECT COUNT(1) AS total,
       COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active,
       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
       COALESCE(SUM(CASE WHEN status = 'archived' THEN 1 ELSE 0 END), 0) AS archived,
       COALESCE(SUM(CASE WHEN phase = 'fieldwork' THEN 1 ELSE 0 END), 0) AS fieldwork,
       COALESCE(SUM(CASE WHEN phase = 'review' THEN 1 ELSE 0 END), 0) AS in_review
FROM projects
WHERE owner_id = ?
`
	tx := r.db.WithContext(ctx).Raw(q, ownerID).Scan(&stats)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &stats, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}
