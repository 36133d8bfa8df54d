package formation

import (
	"fmt"
	"tactics/hexgrid"
)

type Kind int

const (
	Archer Kind = iota
	Spearman
	Swordsman
)

func (k Kind) String() string {
	switch k {
	case Archer:
		return "archer"
	case Spearman:
		return "spearman"
	case Swordsman:
		return "swordsman"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Stats are the fixed combat attributes of a unit type.
type Stats struct {
	Kind         Kind
	Health       int
	Speed        int // Move cost budget per step
	Vision       int
	MeleeAttack  int
	MeleeDefense int
	RangedAttack int
	ChargeBonus  int
	TerrainBonus int
	MinRange     int
	MaxRange     int
}

func ArcherStats() Stats {
	return Stats{Kind: Archer, Health: 60, Speed: 4, Vision: 6, MeleeAttack: 2, MeleeDefense: 2, RangedAttack: 5, TerrainBonus: 2, MinRange: 2, MaxRange: 4}
}

func SpearmanStats() Stats {
	return Stats{Kind: Spearman, Health: 100, Speed: 3, Vision: 4, MeleeAttack: 4, MeleeDefense: 6, ChargeBonus: 1, TerrainBonus: 1}
}

func SwordsmanStats() Stats {
	return Stats{Kind: Swordsman, Health: 100, Speed: 4, Vision: 4, MeleeAttack: 6, MeleeDefense: 4, ChargeBonus: 2, TerrainBonus: 1}
}

// Unit is a single member of a formation. Cell is nil until the unit is
// placed on the grid.
type Unit struct {
	Stats
	Health int
	Cell   *hexgrid.Cell
	Target *hexgrid.Cell
	Path   []*hexgrid.Cell // Destination first, current cell last
	Hidden bool

	formation *Formation
	slot      int
}

func (u *Unit) Formation() *Formation {
	return u.formation
}

// Slot is the unit's position in the formation's slot order.
func (u *Unit) Slot() int {
	return u.slot
}

func (u *Unit) Alive() bool {
	return u.Health > 0
}

func (u *Unit) Ranged() bool {
	return u.Kind == Archer
}

// Row is the number of ranks behind the anchor the unit stands in.
func (u *Unit) Row() int {
	switch u.formation.Shape {
	case Line:
		return 0
	case Square:
		switch u.slot {
		case 3:
			return 2
		case 1:
			return 0
		default:
			return 1
		}
	case Triangle:
		if u.slot == 0 {
			return 0
		}
		return 1
	default:
		panic(fmt.Sprintf("unsupported formation shape %d", u.formation.Shape))
	}
}

// Col is the number of files to the side of the anchor the unit stands in.
func (u *Unit) Col() int {
	switch u.formation.Shape {
	case Line:
		return u.slot
	case Square:
		if u.slot%2 == 1 {
			return 1
		}
		return u.slot
	case Triangle:
		if u.slot == 0 {
			return 1
		}
		return u.slot - 1
	default:
		panic(fmt.Sprintf("unsupported formation shape %d", u.formation.Shape))
	}
}

// IsRangeSlot reports whether cell is inside the unit's firing bracket.
func (u *Unit) IsRangeSlot(cell *hexgrid.Cell) bool {
	if !u.Ranged() || u.Cell == nil || cell == nil {
		return false
	}
	distance := hexgrid.Distance(u.Cell.Coord, cell.Coord)
	return distance >= u.MinRange && distance <= u.MaxRange
}

// IsMeleeSlot reports whether cell is adjacent to the unit.
func (u *Unit) IsMeleeSlot(grid *hexgrid.Grid, cell *hexgrid.Cell) bool {
	if u.Cell == nil || cell == nil {
		return false
	}
	return grid.IsNeighbor(u.Cell.Index, cell.Index)
}

// IsWeakSlot reports whether cell is one of the three cells behind the unit
// relative to its formation's facing.
func (u *Unit) IsWeakSlot(grid *hexgrid.Grid, cell *hexgrid.Cell) bool {
	if u.Cell == nil || cell == nil {
		return false
	}
	d := u.formation.Facing.Next().Next()
	for i := 0; i < 3; i++ {
		if n, ok := grid.Neighbor(u.Cell.Index, d); ok && n == cell {
			return true
		}
		d = d.Next()
	}
	return false
}

// InVisionRange reports whether any unit of an opposing formation can see u.
func (u *Unit) InVisionRange(formations []*Formation) bool {
	if u.Cell == nil {
		return false
	}
	for _, f := range formations {
		if f == nil || f.Clan == u.formation.Clan {
			continue
		}
		for _, other := range f.Units() {
			if other.Cell == nil {
				continue
			}
			if hexgrid.Distance(u.Cell.Coord, other.Cell.Coord) <= other.Vision {
				return true
			}
		}
	}
	return false
}

// UpdateVisibility hides hostile units standing in cover unless spotted.
func (u *Unit) UpdateVisibility(opponents []*Formation) {
	if u.formation.Clan == Friendly || u.Cell == nil {
		u.Hidden = false
		return
	}
	u.Hidden = u.Cell.Cover && !u.InVisionRange(opponents)
}

// TakeCell moves the unit onto target, updating grid occupancy.
func (u *Unit) TakeCell(grid *hexgrid.Grid, target *hexgrid.Cell) error {
	if err := grid.Occupy(target.Index, u); err != nil {
		return err
	}
	if u.Cell != nil && u.Cell != target {
		grid.Vacate(u.Cell.Index)
	}
	u.Cell = target
	return nil
}

// NextStepBlocked reports whether the next cell on the path holds another unit.
func (u *Unit) NextStepBlocked() bool {
	if len(u.Path) == 0 {
		return false
	}
	next := u.Path[0]
	if len(u.Path) > 1 {
		next = u.Path[len(u.Path)-2]
	}
	return next.Occupied() && next.Occupant != u
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s#%d(%s)", u.formation.Name, u.slot, u.Kind)
}
