// Package canvas turns pointer input into annotations and keeps their
// geometry consistent across three coordinate spaces: raw pointer (screen),
// canvas pixels, and PDF document units.
package canvas

import "fieldbook/internal/domain"

// Point is a coordinate in canvas pixel space unless stated otherwise.
type Point struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Pressure *float64 `json:"pressure,omitempty"`
}

// Viewport captures everything needed to convert between spaces: the
// element's bounding rect (screen), the canvas's intrinsic pixel size, and
// the current PDF render scale.
type Viewport struct {
	RectLeft   float64
	RectTop    float64
	RectWidth  float64
	RectHeight float64

	CanvasWidth  float64
	CanvasHeight float64

	Scale float64
}

// CanvasFromScreen maps raw pointer client coordinates into canvas pixels,
// correcting for CSS display scaling that differs from the canvas's
// intrinsic size.
func (v Viewport) CanvasFromScreen(clientX, clientY float64) Point {
	return Point{
		X: (clientX - v.RectLeft) * (v.CanvasWidth / v.RectWidth),
		Y: (clientY - v.RectTop) * (v.CanvasHeight / v.RectHeight),
	}
}

// PDFFromCanvas converts canvas pixels to PDF units. PDF pages originate at
// the bottom-left, so the Y axis flips.
func (v Viewport) PDFFromCanvas(p Point) domain.PDFPoint {
	return domain.PDFPoint{
		X:        p.X / v.Scale,
		Y:        (v.CanvasHeight - p.Y) / v.Scale,
		Pressure: p.Pressure,
	}
}

// CanvasFromPDF re-derives canvas pixels from the durable PDF coordinates at
// the current scale. This direction runs on every redraw; the reverse runs
// only once, when an annotation is committed.
func (v Viewport) CanvasFromPDF(p domain.PDFPoint) Point {
	return Point{
		X:        p.X * v.Scale,
		Y:        v.CanvasHeight - p.Y*v.Scale,
		Pressure: p.Pressure,
	}
}

// pdfRectFromCanvas builds a normalized PDF bounding box from two opposite
// canvas-space corners.
func (v Viewport) pdfRectFromCanvas(a, b Point) domain.PDFRect {
	pa := v.PDFFromCanvas(a)
	pb := v.PDFFromCanvas(b)
	x, w := minSpan(pa.X, pb.X)
	y, h := minSpan(pa.Y, pb.Y)
	return domain.PDFRect{X: x, Y: y, Width: w, Height: h}
}

func minSpan(a, b float64) (origin, size float64) {
	if a <= b {
		return a, b - a
	}
	return b, a - b
}
