package hexgrid

import "errors"

var (
	ErrOutOfRange = errors.New("cell index out of range")
	ErrOccupied   = errors.New("cell occupied by another unit")
)
