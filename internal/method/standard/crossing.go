package standard

import "fmt"

// CrossingLabel describes a crossing count for display.
func CrossingLabel(crosses int) string {
	if crosses <= 0 {
		return "0x radial"
	}
	return fmt.Sprintf("%dx (over %d, under 1)", crosses, crosses-1)
}

// MaxCrosses is the largest crossing count a wheel with holes rim holes can
// be laced with: one less than half the spokes on a flange.
func MaxCrosses(holes int) int {
	return max(holes/4-1, 0)
}

// CommonCrosses lists the crossing counts builders usually pick for holes.
func CommonCrosses(holes int) []int {
	top := min(4, holes/8)
	out := make([]int, 0, top+1)
	for c := 0; c <= top; c++ {
		out = append(out, c)
	}
	return out
}
