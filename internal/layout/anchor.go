package layout

import "github.com/CryoKynase/wheel-lacing-app/internal/models"

// Wrap maps any hole index onto 1..holes with 1-based modular arithmetic.
// It returns 0 when holes is not positive.
func Wrap(holes, hole int) int {
	if holes <= 0 {
		return 0
	}
	return ((hole-1)%holes+holes)%holes + 1
}

// EffectiveStartRimHole is the rim hole treated as the first hole right of
// the valve. Under the left-of-valve convention it is one hole back from the
// chosen start hole, wrapping past 1 to holes.
func EffectiveStartRimHole(holes, startRimHole int, ref models.ValveReference) int {
	if ref == models.LeftOfValve {
		return Wrap(holes, startRimHole-1)
	}
	return Wrap(holes, startRimHole)
}

// Anchor is the pair of rim holes straddling the valve.
type Anchor struct {
	RightOfValve int `json:"rightOfValve"`
	LeftOfValve  int `json:"leftOfValve"`
}

// NewAnchor derives the valve anchor from the user's start hole and
// convention. The left hole is always one step back from the right one.
func NewAnchor(holes, startRimHole int, ref models.ValveReference) Anchor {
	right := EffectiveStartRimHole(holes, startRimHole, ref)
	return Anchor{RightOfValve: right, LeftOfValve: Wrap(holes, right-1)}
}
