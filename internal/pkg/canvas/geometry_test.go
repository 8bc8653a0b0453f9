package canvas

import (
	"testing"

	"fieldbook/internal/domain"
)

func viewport(scale float64) Viewport {
	return Viewport{
		RectWidth:    600,
		RectHeight:   800,
		CanvasWidth:  600,
		CanvasHeight: 800,
		Scale:        scale,
	}
}

func TestPDFConversionFlipsY(t *testing.T) {
	v := viewport(1)

	pdf := v.PDFFromCanvas(Point{X: 100, Y: 700})
	if pdf.X != 100 || pdf.Y != 100 {
		t.Fatalf("PDFFromCanvas = (%v, %v), want (100, 100)", pdf.X, pdf.Y)
	}

	back := v.CanvasFromPDF(pdf)
	if back.X != 100 || back.Y != 700 {
		t.Fatalf("CanvasFromPDF = (%v, %v), want (100, 700)", back.X, back.Y)
	}
}

func TestPDFConversionAtScale(t *testing.T) {
	v := viewport(2)

	pdf := v.PDFFromCanvas(Point{X: 300, Y: 200})
	if pdf.X != 150 || pdf.Y != 300 {
		t.Fatalf("PDFFromCanvas = (%v, %v), want (150, 300)", pdf.X, pdf.Y)
	}

	back := v.CanvasFromPDF(pdf)
	if back.X != 300 || back.Y != 200 {
		t.Fatalf("round trip = (%v, %v), want (300, 200)", back.X, back.Y)
	}
}

func TestCanvasFromScreenCorrectsCSSScaling(t *testing.T) {
	// Canvas is 600x800 pixels but displayed at 300x400, offset by (10, 20).
	v := Viewport{
		RectLeft:     10,
		RectTop:      20,
		RectWidth:    300,
		RectHeight:   400,
		CanvasWidth:  600,
		CanvasHeight: 800,
		Scale:        1,
	}

	p := v.CanvasFromScreen(160, 220)
	if p.X != 300 || p.Y != 400 {
		t.Fatalf("CanvasFromScreen = (%v, %v), want (300, 400)", p.X, p.Y)
	}
}

func TestZoomPreservesPDFCoordinates(t *testing.T) {
	// An annotation committed at scale 1 must land on the same PDF point when
	// its canvas position is re-derived at another zoom level and converted
	// back. No intermediate rounding, so this holds exactly.
	v1 := viewport(1)
	pdf := v1.PDFFromCanvas(Point{X: 123.25, Y: 456.5})

	v2 := viewport(1.5)
	v2.CanvasHeight = 1200
	v2.CanvasWidth = 900

	again := v2.PDFFromCanvas(v2.CanvasFromPDF(pdf))
	if again.X != pdf.X || again.Y != pdf.Y {
		t.Fatalf("PDF drift across zoom: (%v, %v) -> (%v, %v)", pdf.X, pdf.Y, again.X, again.Y)
	}
}

func TestPDFRectNormalizes(t *testing.T) {
	v := viewport(1)
	r := v.pdfRectFromCanvas(Point{X: 200, Y: 100}, Point{X: 100, Y: 300})
	want := domain.PDFRect{X: 100, Y: 500, Width: 100, Height: 200}
	if r != want {
		t.Fatalf("pdfRectFromCanvas = %+v, want %+v", r, want)
	}
}
