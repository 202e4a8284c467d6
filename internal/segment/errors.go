package segment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("segment: invalid dimensions")

	// ErrInvalidSeeds is returned when a seed mask length differs from width*height.
	ErrInvalidSeeds = errors.New("segment: invalid seeds")

	// ErrNodeOutOfRange is returned when an edge references a missing node.
	ErrNodeOutOfRange = errors.New("segment: node out of range")

	// ErrNegativeCapacity is returned when an edge is added with capacity < 0.
	ErrNegativeCapacity = errors.New("segment: negative capacity")

	// ErrArithmeticOverflow is returned when the flow bound does not fit in int64.
	ErrArithmeticOverflow = errors.New("segment: arithmetic overflow")

	// ErrAlreadySolved is returned when MaxFlow runs twice on one network.
	ErrAlreadySolved = errors.New("segment: network already solved")
)

// EdgeError describes a rejected AddEdge call.
type EdgeError struct {
	From, To int
	Cap      int64
	Err      error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("%v: edge %d->%d (capacity %d)", e.Err, e.From, e.To, e.Cap)
}

func (e *EdgeError) Unwrap() error { return e.Err }
