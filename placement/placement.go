// Package placement computes where the main window goes on screen.
//
// Work areas arrive in physical pixels. Window sizes and the resulting
// position are in device-independent pixels (DIP, 1/96 inch). The corner
// position is computed in pixels so it lands on whole device pixels, then
// converted back and clamped in DIP.
package placement

import "math"

// Defaults used when the window has not reported a size yet.
const (
	DefaultWidth  = 900
	DefaultHeight = 600
	DefaultMargin = 16
)

// Rect is an axis-aligned rectangle in physical pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Size is a window size in DIP.
type Size struct {
	Width, Height float64
}

// Point is a window position in DIP.
type Point struct {
	X, Y float64
}

// Screen describes the monitor a window is placed on.
type Screen struct {
	WorkArea Rect    // physical pixels, excludes taskbars and docks
	Scale    float64 // DPI / 96
	Origin   Origin
}

// Origin anchors a screen's pixel space to the DIP space windows are
// positioned in. Each monitor is scaled around its own top-left corner,
// so a pixel maps to DIP as X + (px - PhysicalX) / scale. The zero value
// puts both corners at 0,0.
type Origin struct {
	PhysicalX, PhysicalY int     // top-left corner in physical pixels
	X, Y                 float64 // the same corner in DIP
}

func (o Origin) dipX(px int, scale float64) float64 {
	return o.X + float64(px-o.PhysicalX)/scale
}

func (o Origin) dipY(px int, scale float64) float64 {
	return o.Y + float64(px-o.PhysicalY)/scale
}

// ScaleFromDPI converts a raw DPI value to a scale factor.
func ScaleFromDPI(dpi uint32) float64 {
	if dpi == 0 {
		return 1
	}
	return float64(dpi) / 96.0
}

// NormalizeScale replaces zero, negative or non-finite scales with 1.
func NormalizeScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}

// ResolveSize picks the laid-out size when known, then the requested size,
// then the defaults, independently per dimension.
func ResolveSize(actual, requested Size) Size {
	return Size{
		Width:  firstPositive(actual.Width, requested.Width, DefaultWidth),
		Height: firstPositive(actual.Height, requested.Height, DefaultHeight),
	}
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}
	return 0
}

// BottomRight returns the top-left corner, in DIP, that puts a window of
// the given size margin DIP away from the bottom-right corner of the
// screen's work area. The result never leaves the work area's top-left
// corner, and the window stays inside when it fits.
func BottomRight(s Screen, size Size, margin float64) Point {
	scale := NormalizeScale(s.Scale)
	size = ResolveSize(size, Size{})
	if margin < 0 || math.IsNaN(margin) {
		margin = 0
	}

	widthPx := int(math.Round(size.Width * scale))
	heightPx := int(math.Round(size.Height * scale))
	marginPx := int(math.Round(margin * scale))

	wa := s.WorkArea
	leftPx := wa.Right() - marginPx - widthPx
	topPx := wa.Bottom() - marginPx - heightPx

	p := Point{
		X: s.Origin.dipX(leftPx, scale),
		Y: s.Origin.dipY(topPx, scale),
	}
	return Clamp(p, size, s.workAreaDIP(scale))
}

// DIPRect is a rectangle in DIP.
type DIPRect struct {
	Left, Top, Right, Bottom float64
}

func (s Screen) workAreaDIP(scale float64) DIPRect {
	r := s.WorkArea
	return DIPRect{
		Left:   s.Origin.dipX(r.X, scale),
		Top:    s.Origin.dipY(r.Y, scale),
		Right:  s.Origin.dipX(r.Right(), scale),
		Bottom: s.Origin.dipY(r.Bottom(), scale),
	}
}

// Clamp keeps p inside area for a window of the given size. When the window
// is larger than the area the top-left corner wins.
func Clamp(p Point, size Size, area DIPRect) Point {
	if p.X < area.Left {
		p.X = area.Left
	}
	if p.Y < area.Top {
		p.Y = area.Top
	}
	if p.X+size.Width > area.Right {
		p.X = math.Max(area.Left, area.Right-size.Width)
	}
	if p.Y+size.Height > area.Bottom {
		p.Y = math.Max(area.Top, area.Bottom-size.Height)
	}
	return p
}

// Round converts a DIP point to the integer coordinates window toolkits take.
func (p Point) Round() (x, y int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
