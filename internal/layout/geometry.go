package layout

import "math"

// Circle radii and the sideways flange offset, in diagram units.
const (
	RimRadius         = 160.0
	RightFlangeRadius = 105.0
	LeftFlangeRadius  = 85.0
	HubOffset         = 18.0
)

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by dx, dy.
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Circle is a circle outline to draw.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// PointOnCircle returns the point at angleDeg on a circle of radius centred
// on the origin.
func PointOnCircle(radius, angleDeg float64) Point {
	a := degToRad(angleDeg)
	return Point{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
}

// RimAngle is the angle of a rim hole: hole 1 at -90 degrees (top), the rest
// spaced evenly clockwise.
func RimAngle(holes, hole int) float64 {
	return -90 + float64(hole-1)*(360/float64(holes))
}

// hubRawAngle is the unrotated angle of a hub hole. The left flange is
// offset half a hole spacing from the right one.
func hubRawAngle(rightFlange bool, hole int, step float64) float64 {
	deg := float64(hole-1) * step
	if !rightFlange {
		deg += step / 2
	}
	return deg
}
