package canvas

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"fieldbook/internal/domain"
)

// Tool is the active drawing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolFreehand
	ToolRectangle
	ToolCircle
	ToolLine
	ToolArrow
	ToolText
	ToolHighlight
)

var toolKinds = map[Tool]domain.AnnotationKind{
	ToolFreehand:  domain.AnnotationFreehand,
	ToolRectangle: domain.AnnotationRectangle,
	ToolCircle:    domain.AnnotationCircle,
	ToolLine:      domain.AnnotationLine,
	ToolArrow:     domain.AnnotationArrow,
	ToolText:      domain.AnnotationText,
	ToolHighlight: domain.AnnotationHighlight,
}

const (
	EventCreated = "annotation-created"
	EventUpdated = "annotation-updated"
	EventDeleted = "annotation-deleted"
)

// Event is dispatched when an annotation is committed, edited or removed.
type Event struct {
	Type       string            `json:"type"`
	Annotation domain.Annotation `json:"annotation"`
	UserID     string            `json:"user_id"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Preview is the transient shape drawn on the overlay surface while a shape
// tool gesture is in flight. It is never part of the durable layer.
type Preview struct {
	Kind  domain.AnnotationKind
	Start Point
	End   Point
}

// Engine owns one page's annotation layer. All geometry committed to the
// layer is stored in PDF space; canvas positions are re-derived on redraw.
// The engine is owned by a single component instance but guards its state
// anyway since events may arrive from delivery goroutines.
type Engine struct {
	mu sync.Mutex

	viewport Viewport
	tool     Tool
	style    domain.AnnotationStyle
	userID   string
	page     int

	drawing bool
	start   Point
	path    []Point
	preview *Preview

	annotations []domain.Annotation
	lastHash    [sha256.Size]byte
	lastWidth   float64
	lastHeight  float64
	lastScale   float64

	// promptText supplies the content for the text tool. Returning ok=false
	// aborts the annotation.
	promptText func() (string, bool)

	onEvent func(Event)
}

func NewEngine(viewport Viewport, userID string, page int) *Engine {
	return &Engine{
		viewport: viewport,
		userID:   userID,
		page:     page,
		tool:     ToolSelect,
		style: domain.AnnotationStyle{
			StrokeColor:   "#d33",
			StrokeWidth:   2,
			StrokeOpacity: 1,
		},
	}
}

func (e *Engine) OnEvent(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = fn
}

func (e *Engine) SetTool(t Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tool = t
}

func (e *Engine) SetStyle(s domain.AnnotationStyle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.style = s
}

func (e *Engine) SetTextPrompt(fn func() (string, bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.promptText = fn
}

// SetAnnotations replaces the durable layer, e.g. after loading a document.
func (e *Engine) SetAnnotations(list []domain.Annotation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.annotations = append([]domain.Annotation(nil), list...)
}

func (e *Engine) Annotations() []domain.Annotation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Annotation(nil), e.annotations...)
}

func (e *Engine) Drawing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drawing
}

func (e *Engine) Preview() *Preview {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview
}

// PointerDown starts a gesture. Select and pan never draw. The text tool is
// synchronous: it prompts immediately and commits in the same call when
// content is supplied, without entering the drawing state.
func (e *Engine) PointerDown(clientX, clientY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tool == ToolSelect || e.tool == ToolPan || e.drawing {
		return
	}

	p := e.viewport.CanvasFromScreen(clientX, clientY)

	if e.tool == ToolText {
		if e.promptText == nil {
			return
		}
		text, ok := e.promptText()
		if !ok || text == "" {
			return
		}
		a := e.buildShape(domain.AnnotationText, p, p)
		a.Text = text
		e.commitLocked(a)
		return
	}

	e.drawing = true
	e.start = p
	e.path = []Point{p}
	if e.tool != ToolFreehand {
		kind := toolKinds[e.tool]
		e.preview = &Preview{Kind: kind, Start: p, End: p}
	}
}

// PointerMove extends the gesture. Freehand appends to the path buffer;
// shape tools only move the preview on the overlay.
func (e *Engine) PointerMove(clientX, clientY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.drawing {
		return
	}
	p := e.viewport.CanvasFromScreen(clientX, clientY)
	if e.tool == ToolFreehand {
		e.path = append(e.path, p)
		return
	}
	e.preview.End = p
}

// PointerUp finalizes the gesture, bakes the shape into the durable layer in
// PDF coordinates and dispatches a creation event. The preview overlay is
// always cleared, even if nothing was committed.
func (e *Engine) PointerUp(clientX, clientY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.drawing {
		return
	}
	p := e.viewport.CanvasFromScreen(clientX, clientY)
	e.drawing = false
	e.preview = nil

	var a domain.Annotation
	switch e.tool {
	case ToolFreehand:
		e.path = append(e.path, p)
		pts := make([]domain.PDFPoint, 0, len(e.path))
		for _, cp := range e.path {
			pts = append(pts, e.viewport.PDFFromCanvas(cp))
		}
		a = e.newAnnotation(domain.AnnotationFreehand)
		a.Points = pts
	case ToolLine, ToolArrow:
		a = e.newAnnotation(toolKinds[e.tool])
		a.Points = []domain.PDFPoint{
			e.viewport.PDFFromCanvas(e.start),
			e.viewport.PDFFromCanvas(p),
		}
	default:
		a = e.buildShape(toolKinds[e.tool], e.start, p)
	}
	e.path = nil
	e.commitLocked(a)
}

// PointerCancel discards the in-progress annotation. No event is emitted and
// the overlay is cleared so no ghost preview survives.
func (e *Engine) PointerCancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drawing = false
	e.path = nil
	e.preview = nil
}

// SetViewport applies a zoom or resize. Canvas positions of every annotation
// become stale and the next Redraw will repaint.
func (e *Engine) SetViewport(v Viewport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = v
}

// Redraw reports whether the durable layer needed repainting: true when the
// canvas dimensions or scale changed, or when the collection's content hash
// did. Repeated calls with nothing changed are no-ops.
func (e *Engine) Redraw() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.contentHashLocked()
	if h == e.lastHash &&
		e.viewport.CanvasWidth == e.lastWidth &&
		e.viewport.CanvasHeight == e.lastHeight &&
		e.viewport.Scale == e.lastScale {
		return false
	}
	e.lastHash = h
	e.lastWidth = e.viewport.CanvasWidth
	e.lastHeight = e.viewport.CanvasHeight
	e.lastScale = e.viewport.Scale
	return true
}

// ContentHash fingerprints the durable layer: id, geometry and style of every
// annotation. Mutations to unrelated fields do not change it.
func (e *Engine) ContentHash() [sha256.Size]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contentHashLocked()
}

func (e *Engine) contentHashLocked() [sha256.Size]byte {
	h := sha256.New()
	for _, a := range e.annotations {
		hashAnnotation(h, a)
	}
	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}

// Fingerprint hashes the durable fields of a single annotation: id, geometry,
// style and text. Title, description and tags do not contribute.
func Fingerprint(a domain.Annotation) [sha256.Size]byte {
	h := sha256.New()
	hashAnnotation(h, a)
	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}

func hashAnnotation(h io.Writer, a domain.Annotation) {
	fmt.Fprintf(h, "%s|%s|%d|", a.ID, a.Kind, a.Page)
	for _, p := range a.Points {
		fmt.Fprintf(h, "%g,%g;", p.X, p.Y)
	}
	if a.Bounds != nil {
		fmt.Fprintf(h, "[%g,%g,%g,%g]", a.Bounds.X, a.Bounds.Y, a.Bounds.Width, a.Bounds.Height)
	}
	fmt.Fprintf(h, "|%s|%g|%g|%s|%g|%s|",
		a.Style.StrokeColor, a.Style.StrokeWidth, a.Style.StrokeOpacity,
		a.Style.FillColor, a.Style.FillOpacity, a.Text)
}

func (e *Engine) newAnnotation(kind domain.AnnotationKind) domain.Annotation {
	now := time.Now().UTC()
	return domain.Annotation{
		ID:        uuid.NewString(),
		Page:      e.page,
		Kind:      kind,
		Style:     e.style,
		CreatedBy: e.userID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *Engine) buildShape(kind domain.AnnotationKind, a, b Point) domain.Annotation {
	ann := e.newAnnotation(kind)
	bounds := e.viewport.pdfRectFromCanvas(a, b)
	ann.Bounds = &bounds
	return ann
}

func (e *Engine) commitLocked(a domain.Annotation) {
	e.annotations = append(e.annotations, a)
	if e.onEvent != nil {
		e.onEvent(Event{
			Type:       EventCreated,
			Annotation: a,
			UserID:     e.userID,
			Timestamp:  time.Now().UTC(),
		})
	}
}
