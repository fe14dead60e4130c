package model

import "math"

// Point represents a 2D point in PDF user space (points, origin bottom-left).
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PageSize describes a page's dimensions in points, before rotation is
// applied.
type PageSize struct {
	Width    float64
	Height   float64
	Rotation int // Rotation angle (0, 90, 180, 270)
}

// Adjusted returns the rotation-adjusted page size: for 90 and 270 degree
// rotations width and height are swapped.
func (s PageSize) Adjusted() PageSize {
	rot := ((s.Rotation % 360) + 360) % 360
	if rot == 90 || rot == 270 {
		return PageSize{Width: s.Height, Height: s.Width, Rotation: s.Rotation}
	}
	return s
}
