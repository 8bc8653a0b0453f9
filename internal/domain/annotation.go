package domain

import "time"

type AnnotationKind string

const (
	AnnotationFreehand  AnnotationKind = "freehand"
	AnnotationRectangle AnnotationKind = "rectangle"
	AnnotationCircle    AnnotationKind = "circle"
	AnnotationLine      AnnotationKind = "line"
	AnnotationArrow     AnnotationKind = "arrow"
	AnnotationText      AnnotationKind = "text"
	AnnotationHighlight AnnotationKind = "highlight"
)

func (k AnnotationKind) Valid() bool {
	switch k {
	case AnnotationFreehand, AnnotationRectangle, AnnotationCircle,
		AnnotationLine, AnnotationArrow, AnnotationText, AnnotationHighlight:
		return true
	}
	return false
}

// PDFPoint is a coordinate in PDF document units (origin bottom-left).
// PDF space is the durable representation; canvas coordinates are always
// re-derived from it at the current render scale.
type PDFPoint struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Pressure *float64 `json:"pressure,omitempty"`
}

// PDFRect is a parametric bounding box in PDF units.
type PDFRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type AnnotationStyle struct {
	StrokeColor   string  `json:"stroke_color"`
	StrokeWidth   float64 `json:"stroke_width"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	FillColor     string  `json:"fill_color,omitempty"`
	FillOpacity   float64 `json:"fill_opacity,omitempty"`
}

type Annotation struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"document_id" validate:"required"`
	Page        int             `json:"page" validate:"required,gte=1"`
	Kind        AnnotationKind  `json:"kind"`
	Points      []PDFPoint      `json:"points,omitempty"`
	Bounds      *PDFRect        `json:"bounds,omitempty"`
	Text        string          `json:"text,omitempty"`
	Style       AnnotationStyle `json:"style"`
	CreatedBy   string          `json:"created_by"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
