// Public domain.

package gcorr

import "fmt"

// ShapeError indicates batch inputs of unequal length.  It is a
// precondition violation, detected before any computation.  Fields hold
// the length of each input as passed.
type ShapeError struct {
	BpRp, Solved, GMag, GFlux int
}

func (e ShapeError) Error() string {
	return fmt.Sprintf(
		"mismatched input lengths: color %d, solution type %d, magnitude %d, flux %d",
		e.BpRp, e.Solved, e.GMag, e.GFlux)
}
