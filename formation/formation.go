package formation

import (
	"fmt"
	"tactics/hexgrid"

	"github.com/google/uuid"
)

type Clan int

const (
	Friendly Clan = iota
	Hostile
)

func (c Clan) String() string {
	switch c {
	case Friendly:
		return "friendly"
	case Hostile:
		return "hostile"
	default:
		return fmt.Sprintf("Clan(%d)", int(c))
	}
}

// Opponent returns the other clan.
func (c Clan) Opponent() Clan {
	if c == Friendly {
		return Hostile
	}
	return Friendly
}

// Status drives which pick policy a formation uses.
type Status int

const (
	StatusDefault         Status = iota // Advance towards the best ground
	StatusAttackStructure               // A settlement is the current target
	StatusAttackEnemy                   // Opposing units are in sight
)

func (s Status) String() string {
	switch s {
	case StatusDefault:
		return "default"
	case StatusAttackStructure:
		return "attack-structure"
	case StatusAttackEnemy:
		return "attack-enemy"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

type Shape int

const (
	Line Shape = iota
	Square
	Triangle
)

// Formation is a named group of units that moves and decides as one.
type Formation struct {
	ID      uuid.UUID
	Name    string
	Clan    Clan
	Shape   Shape
	Facing  hexgrid.Direction
	Anchor  *hexgrid.Cell // Cell the formation is centred on
	Status  Status
	units   []*Unit
	removed bool
}

func New(name string, clan Clan, shape Shape, facing hexgrid.Direction) *Formation {
	return &Formation{
		ID:     uuid.New(),
		Name:   name,
		Clan:   clan,
		Shape:  shape,
		Facing: facing,
	}
}

// AddUnit creates a unit with the given stats and appends it to the formation.
// Ranged units are kept at the back of the slot order.
func (f *Formation) AddUnit(stats Stats) *Unit {
	unit := &Unit{Stats: stats, formation: f, Health: stats.Health}
	f.units = append(f.units, unit)
	f.sortUnits()
	return unit
}

func (f *Formation) sortUnits() {
	index := 0
	for _, ranged := range []bool{false, true} {
		for _, unit := range f.units {
			if unit.Ranged() == ranged {
				unit.slot = index
				index++
			}
		}
	}
}

// Units returns the living members of the formation.
func (f *Formation) Units() []*Unit {
	units := make([]*Unit, 0, len(f.units))
	for _, unit := range f.units {
		if unit.Alive() {
			units = append(units, unit)
		}
	}
	return units
}

func (f *Formation) HasUnit(unit *Unit) bool {
	if unit == nil {
		return false
	}
	return unit.formation == f
}

// Disband marks the formation as removed from play.
func (f *Formation) Disband() {
	f.removed = true
}

// Removed reports whether the formation left play or lost all its units.
func (f *Formation) Removed() bool {
	return f == nil || f.removed || len(f.Units()) == 0
}

// Cells returns the cells currently held by the formation's units.
func (f *Formation) Cells() []*hexgrid.Cell {
	cells := []*hexgrid.Cell{}
	for _, unit := range f.Units() {
		if unit.Cell != nil {
			cells = append(cells, unit.Cell)
		}
	}
	return cells
}

// RowCell walks row steps backwards from start, away from the facing.
func (f *Formation) RowCell(grid *hexgrid.Grid, start *hexgrid.Cell, row int) *hexgrid.Cell {
	curr := start
	back := f.Facing.Opposite()
	for i := 0; i < row && curr != nil; i++ {
		next, ok := grid.Neighbor(curr.Index, back)
		if !ok {
			return nil
		}
		curr = next
	}
	return curr
}

// ColCell walks col steps sideways from start, clockwise of the facing.
func (f *Formation) ColCell(grid *hexgrid.Grid, start *hexgrid.Cell, col int) *hexgrid.Cell {
	curr := start
	side := f.Facing.Next()
	for i := 0; i < col && curr != nil; i++ {
		next, ok := grid.Neighbor(curr.Index, side)
		if !ok {
			return nil
		}
		curr = next
	}
	return curr
}

// SlotCell returns the cell assigned to unit relative to the anchor, or nil
// when the slot falls off the grid.
func (f *Formation) SlotCell(grid *hexgrid.Grid, unit *Unit) *hexgrid.Cell {
	if f.Anchor == nil {
		return nil
	}
	row, col := unit.Row(), unit.Col()
	return f.ColCell(grid, f.RowCell(grid, f.Anchor, row), col)
}

// EngagesEnemy reports whether any member sees a unit of the opponents.
func (f *Formation) EngagesEnemy(opponents []*Formation) bool {
	for _, unit := range f.Units() {
		if unit.InVisionRange(opponents) {
			return true
		}
	}
	return false
}

func (f *Formation) String() string {
	return fmt.Sprintf("%s[%s]", f.Name, f.Clan)
}
