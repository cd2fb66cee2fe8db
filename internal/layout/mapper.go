package layout

import (
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// Segment is one spoke drawn from its hub hole to its rim hole.
type Segment struct {
	Order      int         `json:"order"`
	Side       models.Side `json:"side"`
	Group      int         `json:"group"`
	HubHole    int         `json:"hubHole"`
	RimHole    int         `json:"rimHole"`
	Hub        Point       `json:"hub"`
	Rim        Point       `json:"rim"`
	Emphasized bool        `json:"emphasized"`
}

// RimTick is a rim hole marker. Labeled ticks carry a label position.
type RimTick struct {
	Hole    int   `json:"hole"`
	Point   Point `json:"point"`
	Labeled bool  `json:"labeled"`
	Label   Point `json:"label"`
}

// HubTick is a hub hole marker on one flange.
type HubTick struct {
	Side    models.Side `json:"side"`
	Hole    int         `json:"hole"`
	Point   Point       `json:"point"`
	Labeled bool        `json:"labeled"`
	Label   Point       `json:"label"`
}

// ValveMarker is the triangle at the top of the rim plus its caption.
type ValveMarker struct {
	Apex   Point    `json:"apex"`
	Base   [2]Point `json:"base"`
	Label  Point    `json:"label"`
	Anchor Anchor   `json:"anchor"`
}

// Result is the full geometric description of a pattern.
type Result struct {
	HoleCount    int                     `json:"holeCount"`
	Rim          Circle                  `json:"rim"`
	Flanges      map[models.Side]Circle  `json:"flanges"`
	BaseAngles   map[models.Side]float64 `json:"baseAngles"`
	Segments     []Segment               `json:"segments"`
	RimTicks     []RimTick               `json:"rimTicks"`
	HubTicks     []HubTick               `json:"hubTicks"`
	AnchorLabels []RimTick               `json:"anchorLabels"`
	Valve        ValveMarker             `json:"valve"`
}

// Option configures Map.
type Option func(*options)

type options struct {
	visible map[int]bool
}

// WithVisible emphasizes only the given placements; the rest are dimmed.
// Without it every segment is emphasized.
func WithVisible(visible []models.SpokePlacement) Option {
	return func(o *options) {
		o.visible = make(map[int]bool, len(visible))
		for _, p := range visible {
			o.visible[p.Order] = true
		}
	}
}

type flange struct {
	side   models.Side
	radius float64
	offset float64
}

var flanges = []flange{
	{side: models.SideRight, radius: RightFlangeRadius, offset: HubOffset},
	{side: models.SideLeft, radius: LeftFlangeRadius, offset: -HubOffset},
}

func flangeFor(side models.Side) flange {
	if side == models.SideLeft {
		return flanges[1]
	}
	return flanges[0]
}

// Map lays out placements for a wheel with holes rim holes. placements must
// be the full, unfiltered set: reference spokes are looked up in it.
// Odd or non-positive hole counts yield a Result with no geometry.
func Map(holes int, placements []models.SpokePlacement, startRimHole int, ref models.ValveReference, opts ...Option) Result {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{
		HoleCount:  holes,
		Flanges:    map[models.Side]Circle{},
		BaseAngles: map[models.Side]float64{},
	}
	if holes <= 0 || holes%2 != 0 {
		return res
	}
	h := holes / 2
	hubStep := 360 / float64(h)

	base := BaseAngles(holes, placements)
	res.BaseAngles = base
	res.Rim = Circle{Radius: RimRadius}
	for _, f := range flanges {
		res.Flanges[f.side] = Circle{Center: Point{X: f.offset}, Radius: f.radius}
	}

	hubPoint := func(f flange, hole int, radius float64) Point {
		deg := hubRawAngle(f.side == models.SideRight, hole, hubStep) + base[f.side]
		return PointOnCircle(radius, deg).Add(f.offset, 0)
	}

	res.Segments = make([]Segment, 0, len(placements))
	for _, p := range placements {
		f := flangeFor(p.Side)
		res.Segments = append(res.Segments, Segment{
			Order:      p.Order,
			Side:       f.side,
			Group:      p.Group,
			HubHole:    p.HubHole,
			RimHole:    p.RimHole,
			Hub:        hubPoint(f, p.HubHole, f.radius),
			Rim:        PointOnCircle(RimRadius, RimAngle(holes, p.RimHole)),
			Emphasized: o.visible == nil || o.visible[p.Order],
		})
	}

	res.RimTicks = make([]RimTick, 0, holes)
	for hole := 1; hole <= holes; hole++ {
		angle := RimAngle(holes, hole)
		tick := RimTick{Hole: hole, Point: PointOnCircle(RimRadius, angle)}
		if hole%4 == 0 {
			tick.Labeled = true
			tick.Label = PointOnCircle(RimRadius+14, angle)
		}
		res.RimTicks = append(res.RimTicks, tick)
	}

	res.HubTicks = make([]HubTick, 0, holes)
	for _, f := range flanges {
		for hole := 1; hole <= h; hole++ {
			tick := HubTick{Side: f.side, Hole: hole, Point: hubPoint(f, hole, f.radius)}
			if f.side == models.SideRight && hole%2 == 0 {
				tick.Labeled = true
				tick.Label = hubPoint(f, hole, f.radius+10)
			}
			res.HubTicks = append(res.HubTicks, tick)
		}
	}

	anchor := NewAnchor(holes, startRimHole, ref)
	seen := map[int]bool{}
	for _, hole := range []int{1, anchor.LeftOfValve, anchor.RightOfValve} {
		if seen[hole] {
			continue
		}
		seen[hole] = true
		angle := RimAngle(holes, hole)
		res.AnchorLabels = append(res.AnchorLabels, RimTick{
			Hole:    hole,
			Point:   PointOnCircle(RimRadius, angle),
			Labeled: true,
			Label:   PointOnCircle(RimRadius+10, angle),
		})
	}

	res.Valve = ValveMarker{
		Apex:   Point{X: 0, Y: -RimRadius - 8},
		Base:   [2]Point{{X: -6, Y: -RimRadius + 2}, {X: 6, Y: -RimRadius + 2}},
		Label:  Point{X: 0, Y: -RimRadius - 14},
		Anchor: anchor,
	}
	return res
}

// BaseAngles returns the rotation of each flange's hub holes. A flange's
// reference placement (the one whose note marks it) is rotated so its hub
// angle equals its rim angle. Without a reference the right flange is not
// rotated and the left flange follows the right.
func BaseAngles(holes int, placements []models.SpokePlacement) map[models.Side]float64 {
	out := map[models.Side]float64{models.SideRight: 0, models.SideLeft: 0}
	if holes <= 0 || holes%2 != 0 {
		return out
	}
	hubStep := 360 / float64(holes/2)

	if ref, ok := findReference(placements, models.SideRight, models.NoteRightReference); ok {
		out[models.SideRight] = RimAngle(holes, ref.RimHole) - hubRawAngle(true, ref.HubHole, hubStep)
	}
	out[models.SideLeft] = out[models.SideRight]
	if ref, ok := findReference(placements, models.SideLeft, models.NoteLeftReference); ok {
		out[models.SideLeft] = RimAngle(holes, ref.RimHole) - hubRawAngle(false, ref.HubHole, hubStep)
	}
	return out
}

func findReference(placements []models.SpokePlacement, side models.Side, note string) (models.SpokePlacement, bool) {
	for _, p := range placements {
		if p.Side == side && strings.Contains(p.Note, note) {
			return p, true
		}
	}
	return models.SpokePlacement{}, false
}
