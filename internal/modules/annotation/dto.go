package annotation

import "fieldbook/internal/domain"

type CreateAnnotationRequest struct {
	Page        int                    `json:"page" binding:"required,min=1"`
	Kind        domain.AnnotationKind  `json:"kind" binding:"required"`
	Points      []domain.PDFPoint      `json:"points"`
	Bounds      *domain.PDFRect        `json:"bounds"`
	Text        string                 `json:"text"`
	Style       domain.AnnotationStyle `json:"style"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Tags        []string               `json:"tags"`
}

type UpdateAnnotationRequest struct {
	Points      []domain.PDFPoint       `json:"points"`
	Bounds      *domain.PDFRect         `json:"bounds"`
	Text        *string                 `json:"text"`
	Style       *domain.AnnotationStyle `json:"style"`
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Tags        []string                `json:"tags"`
}
