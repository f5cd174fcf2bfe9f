package metrictree

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDistanceFunc is returned by New when no distance function is supplied.
	ErrNilDistanceFunc = errors.New("distance func must not be nil")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNegativeRange is returned when a range query is given a negative radius.
	ErrNegativeRange = errors.New("range must be non-negative")
)

// ErrInvalidSphereSize indicates a max sphere size too small to guarantee a
// structurally valid split. A leaf of 3 or fewer entries cannot reliably be
// partitioned into two non-degenerate children.
type ErrInvalidSphereSize struct {
	Size int
}

func (e *ErrInvalidSphereSize) Error() string {
	return fmt.Sprintf("invalid max sphere size: %d (minimum is %d)", e.Size, MinSphereSize)
}
