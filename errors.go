package occluder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a malformed mesh or out of range parameters
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapacity reports a voxel grid beyond the memory ceiling
	ErrCapacity = errors.New("voxel grid capacity exceeded")
	// ErrDegenerateTopology reports a mesh enclosing no voxel at all
	ErrDegenerateTopology = errors.New("degenerate topology")
)

func inputError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// CapacityError details a refused grid. It matches ErrCapacity.
type CapacityError struct {
	Size   [3]float64
	Voxels float64
	Limit  int
	// SuggestedVoxelSize is the smallest tried size whose grid fits
	SuggestedVoxelSize float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: %.0fx%.0fx%.0f grid needs %.0f voxels, limit is %d (try a voxel size of %g)",
		ErrCapacity, e.Size[0], e.Size[1], e.Size[2], e.Voxels, e.Limit, e.SuggestedVoxelSize)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}
