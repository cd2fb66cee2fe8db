package method

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHoleCount indicates a hole count that is not an even integer >= MinHoles.
	ErrInvalidHoleCount = errors.New("method: hole count must be an even integer >= 20")
	// ErrUnknownMethod indicates a registry lookup for an id that was never registered.
	ErrUnknownMethod = errors.New("method: unknown lacing method")
	// ErrDuplicateMethod indicates two registered methods sharing one id.
	ErrDuplicateMethod = errors.New("method: duplicate lacing method id")
	// ErrInvalidDescriptor indicates a descriptor or parameter schema that breaks its invariants.
	ErrInvalidDescriptor = errors.New("method: invalid method descriptor")
)

// MinHoles is the smallest rim hole count any method accepts.
const MinHoles = 20

// ValidateHoleCount rejects odd hole counts and counts below MinHoles.
func ValidateHoleCount(holes int) error {
	if holes < MinHoles || holes%2 != 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidHoleCount, holes)
	}
	return nil
}
