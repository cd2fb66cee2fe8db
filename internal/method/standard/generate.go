package standard

import (
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// GroupCount is the number of lacing groups of the standard method.
const GroupCount = 4

// Assignment is the flange and head orientation a group installs.
type Assignment struct {
	Side models.Side
	Head models.Head
}

// Generate returns the placements for holes in install order.
// It fails only when holes is not an even integer >= 20.
func Generate(holes int, p Params) ([]models.SpokePlacement, error) {
	if err := method.ValidateHoleCount(holes); err != nil {
		return nil, err
	}
	h := holes / 2

	right, left := SplitByValueParity(Sequence(holes))
	if p.ValveRule == AlignKeySpokeRightOfValve {
		right = Rotate(right, 1)
		left = Rotate(left, 1)
	}
	rimOut := map[models.Side][]int{}
	rimIn := map[models.Side][]int{}
	rimOut[models.SideRight], rimIn[models.SideRight] = SplitByPosition(right)
	rimOut[models.SideLeft], rimIn[models.SideLeft] = SplitByPosition(left)

	// Hub numbering is the same on both flanges and ignores the valve rule.
	hubOut, hubIn := SplitByPosition(Sequence(h))

	groups := Groups(p.StartSide, p.LaceOrder)
	label := CrossingLabel(p.Crosses)

	placements := make([]models.SpokePlacement, 0, holes)
	referenced := map[models.Side]bool{}
	for _, g := range VisitOrder(p.LaceOrder) {
		a := groups[g]
		rims, hubs := rimOut[a.Side], hubOut
		if a.Head == models.HeadIn {
			rims, hubs = rimIn[a.Side], hubIn
		}
		for _, pair := range Zip(rims, hubs) {
			sp := models.SpokePlacement{
				Order:         len(placements) + 1,
				Side:          a.Side,
				Head:          a.Head,
				Group:         g,
				HubHole:       pair[1],
				RimHole:       pair[0],
				Crosses:       p.Crosses,
				CrossingLabel: label,
			}
			if !referenced[a.Side] {
				referenced[a.Side] = true
				sp.Note = referenceNote(a.Side)
			}
			placements = append(placements, sp)
		}
	}
	return placements, nil
}

func referenceNote(side models.Side) string {
	if side == models.SideLeft {
		return models.NoteLeftReference
	}
	return models.NoteRightReference
}

// Groups maps group numbers to their flange and head orientation:
// 1:(start,H) 2:(other,H) 3:(start,!H) 4:(other,!H), where H is out unless
// order is HeadsInFirst.
func Groups(start models.Side, order LaceOrder) map[int]Assignment {
	if !start.Valid() {
		start = models.SideRight
	}
	other := start.Opposite()
	head := models.HeadOut
	if order == HeadsInFirst {
		head = models.HeadIn
	}
	return map[int]Assignment{
		1: {Side: start, Head: head},
		2: {Side: other, Head: head},
		3: {Side: start, Head: head.Opposite()},
		4: {Side: other, Head: head.Opposite()},
	}
}

// VisitOrder returns the order in which groups are installed.
func VisitOrder(order LaceOrder) []int {
	if order == HeadsInFirst {
		return []int{3, 4, 1, 2}
	}
	return []int{1, 2, 3, 4}
}

// Sequence returns 1..n.
func Sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// SplitByValueParity separates odd values from even values, keeping order.
func SplitByValueParity(seq []int) (odd, even []int) {
	for _, v := range seq {
		if v%2 != 0 {
			odd = append(odd, v)
		} else {
			even = append(even, v)
		}
	}
	return odd, even
}

// SplitByPosition separates elements at even (0-based) positions from those
// at odd positions.
func SplitByPosition(seq []int) (evenPos, oddPos []int) {
	for i, v := range seq {
		if i%2 == 0 {
			evenPos = append(evenPos, v)
		} else {
			oddPos = append(oddPos, v)
		}
	}
	return evenPos, oddPos
}

// Rotate shifts seq circularly left by offset: the element at position i
// moves to position (i - offset) mod len. Negative offsets shift right.
// The input is not modified.
func Rotate(seq []int, offset int) []int {
	n := len(seq)
	out := make([]int, n)
	if n == 0 {
		return out
	}
	k := ((offset % n) + n) % n
	for i := range seq {
		out[i] = seq[(i+k)%n]
	}
	return out
}

// Zip pairs rims[i] with hubs[i] up to the shorter of the two lengths.
// Extra elements of the longer sequence are dropped.
func Zip(rims, hubs []int) [][2]int {
	n := min(len(rims), len(hubs))
	out := make([][2]int, n)
	for i := 0; i < n; i++ {
		out[i] = [2]int{rims[i], hubs[i]}
	}
	return out
}
