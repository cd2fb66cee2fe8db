package models

// Side identifies one of the two hub flanges.
// Right is the drive side (DS), Left the non-drive side (NDS).
type Side string

const (
	SideRight Side = "right"
	SideLeft  Side = "left"
)

// Opposite returns the other flange.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Valid reports whether s is one of the two known flanges.
func (s Side) Valid() bool {
	return s == SideRight || s == SideLeft
}

// Head is the orientation of a spoke head relative to its flange.
type Head string

const (
	HeadIn  Head = "in"
	HeadOut Head = "out"
)

// Opposite returns the other head orientation.
func (h Head) Opposite() Head {
	if h == HeadIn {
		return HeadOut
	}
	return HeadIn
}

// Notes that mark the reference spoke of each flange. The layout mapper
// anchors each flange's hub rotation on the placement carrying the note.
const (
	NoteRightReference = "Right flange reference spoke"
	NoteLeftReference  = "Left flange reference spoke"
)

// SpokePlacement is one physical spoke in lacing order.
type SpokePlacement struct {
	Order         int    `json:"order"`
	Side          Side   `json:"side"`
	Head          Head   `json:"head"`
	Group         int    `json:"group"`
	HubHole       int    `json:"hubHole"`
	RimHole       int    `json:"rimHole"`
	Crosses       int    `json:"crosses"`
	CrossingLabel string `json:"crossingLabel"`
	Note          string `json:"note,omitempty"`
}
