package hexgrid

import "fmt"

const noNeighbor = -1

// Grid is the authoritative cell graph. Cells are stored in generation order
// and each one carries a six-entry adjacency row indexed by Direction.
type Grid struct {
	Cells     []*Cell
	neighbors [][6]int
	lookup    map[Coord]int
}

// NewGrid indexes cells in the given order and links every pair of cells
// whose coordinates are one step apart.
func NewGrid(cells []*Cell) *Grid {
	g := &Grid{
		Cells:     cells,
		neighbors: make([][6]int, len(cells)),
		lookup:    make(map[Coord]int, len(cells)),
	}
	for i, cell := range cells {
		cell.Index = i
		g.lookup[cell.Coord] = i
		for d := range g.neighbors[i] {
			g.neighbors[i][d] = noNeighbor
		}
	}
	for i, cell := range cells {
		for _, d := range Directions {
			if j, ok := g.lookup[cell.Coord.Add(d.Offset())]; ok {
				g.Link(i, d, j)
			}
		}
	}
	return g
}

// NewRectGrid builds a width x height row-major grid of flat plain cells.
func NewRectGrid(width, height int) *Grid {
	cells := make([]*Cell, 0, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			cells = append(cells, &Cell{
				Coord:     FromOffset(col, row),
				Elevation: 1,
				Terrain:   TerrainPlain,
			})
		}
	}
	return NewGrid(cells)
}

// Link connects a to b in direction d and b to a in the opposite direction.
func (g *Grid) Link(a int, d Direction, b int) {
	g.neighbors[a][d] = b
	g.neighbors[b][d.Opposite()] = a
}

func (g *Grid) Len() int {
	return len(g.Cells)
}

func (g *Grid) InRange(i int) bool {
	return i >= 0 && i < len(g.Cells)
}

// Cell returns the cell at index i, or nil if out of range.
func (g *Grid) Cell(i int) *Cell {
	if !g.InRange(i) {
		return nil
	}
	return g.Cells[i]
}

// At returns the cell at coordinate c, or nil if the grid has none.
func (g *Grid) At(c Coord) *Cell {
	i, ok := g.lookup[c]
	if !ok {
		return nil
	}
	return g.Cells[i]
}

func (g *Grid) Neighbor(i int, d Direction) (*Cell, bool) {
	if !g.InRange(i) || !d.Valid() {
		return nil, false
	}
	j := g.neighbors[i][d]
	if j == noNeighbor {
		return nil, false
	}
	return g.Cells[j], true
}

// Neighbors returns the existing neighbors of cell i in direction order.
func (g *Grid) Neighbors(i int) []*Cell {
	if !g.InRange(i) {
		return nil
	}
	cells := make([]*Cell, 0, 6)
	for _, j := range g.neighbors[i] {
		if j != noNeighbor {
			cells = append(cells, g.Cells[j])
		}
	}
	return cells
}

func (g *Grid) IsNeighbor(a, b int) bool {
	if !g.InRange(a) {
		return false
	}
	for _, j := range g.neighbors[a] {
		if j == b && j != noNeighbor {
			return true
		}
	}
	return false
}

// IsBorder reports whether cell i lies on the edge of the grid.
func (g *Grid) IsBorder(i int) bool {
	return len(g.Neighbors(i)) < 6
}

// Distance returns the hex distance between cells a and b, or -1 when
// either index is out of range.
func (g *Grid) Distance(a, b int) int {
	if !g.InRange(a) || !g.InRange(b) {
		return -1
	}
	return Distance(g.Cells[a].Coord, g.Cells[b].Coord)
}

// IsUnpassable reports whether no unit can move onto cell i: it is too low,
// occupied, of blocking terrain, or cut off from every neighbor by a cliff.
func (g *Grid) IsUnpassable(i int) bool {
	cell := g.Cell(i)
	if cell == nil {
		return true
	}
	if cell.Elevation < MinElevation || cell.Occupied() || cell.Terrain.Blocking() {
		return true
	}
	for _, n := range g.Neighbors(i) {
		if abs(n.Elevation-cell.Elevation) <= 1 {
			return false
		}
	}
	return true
}

// MoveCost returns the cost of a single step from one cell to another.
// Stepping onto a cell held by a different unit, onto a non-adjacent cell or
// across an elevation difference of two or more costs Unpassable.
func (g *Grid) MoveCost(from, to int) int {
	if from == to {
		return 0
	}
	if !g.IsNeighbor(from, to) {
		return Unpassable
	}
	src, dst := g.Cells[from], g.Cells[to]
	if dst.Occupied() && dst.Occupant != src.Occupant {
		return Unpassable
	}
	if abs(src.Elevation-dst.Elevation) >= 2 {
		return Unpassable
	}
	return src.Terrain.Cost()
}

// Occupy places occupant on cell i. The movement layer is responsible for
// vacating the previous cell.
func (g *Grid) Occupy(i int, occupant Occupant) error {
	cell := g.Cell(i)
	if cell == nil {
		return fmt.Errorf("occupy cell %d: %w", i, ErrOutOfRange)
	}
	if cell.Occupied() && cell.Occupant != occupant {
		return fmt.Errorf("occupy cell %d: %w", i, ErrOccupied)
	}
	cell.Occupant = occupant
	return nil
}

func (g *Grid) Vacate(i int) {
	if cell := g.Cell(i); cell != nil {
		cell.Occupant = nil
	}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(cells=%d)", len(g.Cells))
}
