package hexgrid

import "fmt"

// Coord is a cube coordinate on the hex lattice. X + Y + Z is always 0.
type Coord struct {
	X int
	Y int
	Z int
}

// NewCoord derives the Y component from x and z.
func NewCoord(x, z int) Coord {
	return Coord{X: x, Y: -x - z, Z: z}
}

// FromOffset converts a row-major offset position (odd rows shifted right)
// into cube coordinates.
func FromOffset(col, row int) Coord {
	return NewCoord(col-row/2, row)
}

func (c Coord) Add(other Coord) Coord {
	return Coord{X: c.X + other.X, Y: c.Y + other.Y, Z: c.Z + other.Z}
}

func (c Coord) Valid() bool {
	return c.X+c.Y+c.Z == 0
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Distance returns the number of hex steps between a and b.
func Distance(a, b Coord) int {
	return (abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.Z-b.Z)) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Direction int

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// Directions lists every direction in adjacency table order.
var Directions = [6]Direction{NE, E, SE, SW, W, NW}

var directionOffsets = [6]Coord{
	NE: NewCoord(0, 1),
	E:  NewCoord(1, 0),
	SE: NewCoord(1, -1),
	SW: NewCoord(0, -1),
	W:  NewCoord(-1, 0),
	NW: NewCoord(-1, 1),
}

var directionNames = [6]string{"NE", "E", "SE", "SW", "W", "NW"}

func (d Direction) Valid() bool {
	return d >= NE && d <= NW
}

func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

func (d Direction) Next() Direction {
	return (d + 1) % 6
}

func (d Direction) Previous() Direction {
	return (d + 5) % 6
}

// Offset returns the coordinate delta of a single step in direction d.
func (d Direction) Offset() Coord {
	return directionOffsets[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}
