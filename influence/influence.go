package influence

import (
	"errors"
	"fmt"
	"slices"
	"tactics/formation"
	"tactics/hexgrid"
)

var (
	ErrNotRegistered  = errors.New("formation not registered in influence map")
	ErrLengthMismatch = errors.New("influence arrays differ in length")
)

const (
	structureBonus = 5
	coverBonus     = 2
)

// Map scores every cell of the grid from one clan's point of view. Friends
// are the clan's own formations, enemies are the opposing ones. Arrays are
// sized once at construction and overwritten in place on every refresh.
type Map struct {
	Terrain []int
	Friend  []int
	Enemy   []int
	Overall []int

	grid    *hexgrid.Grid
	friends []*formation.Formation
	enemies []*formation.Formation
	self    map[*formation.Formation][]int
}

func New(grid *hexgrid.Grid) *Map {
	size := grid.Len()
	return &Map{
		Terrain: make([]int, size),
		Friend:  make([]int, size),
		Enemy:   make([]int, size),
		Overall: make([]int, size),
		grid:    grid,
		self:    make(map[*formation.Formation][]int),
	}
}

// RegisterFriendly adds f to the friendly set and allocates its zeroed
// self-influence array.
func (m *Map) RegisterFriendly(f *formation.Formation) {
	if !slices.Contains(m.friends, f) {
		m.friends = append(m.friends, f)
	}
	m.self[f] = make([]int, m.grid.Len())
}

func (m *Map) RegisterHostile(f *formation.Formation) {
	if !slices.Contains(m.enemies, f) {
		m.enemies = append(m.enemies, f)
	}
}

func (m *Map) Unregister(f *formation.Formation) {
	m.friends = slices.DeleteFunc(m.friends, func(other *formation.Formation) bool { return other == f })
	m.enemies = slices.DeleteFunc(m.enemies, func(other *formation.Formation) bool { return other == f })
	delete(m.self, f)
}

func (m *Map) Friends() []*formation.Formation {
	return slices.Clone(m.friends)
}

func (m *Map) Enemies() []*formation.Formation {
	return slices.Clone(m.enemies)
}

func (m *Map) Registered(f *formation.Formation) bool {
	_, ok := m.self[f]
	return ok
}

// Refresh drops removed formations and recomputes every array.
func (m *Map) Refresh() []int {
	m.prune()
	m.RefreshTerrain()
	m.refreshFriends()
	m.refreshEnemies()
	return m.UpdateOverall()
}

func (m *Map) prune() {
	m.friends = slices.DeleteFunc(m.friends, func(f *formation.Formation) bool {
		if f.Removed() {
			delete(m.self, f)
			return true
		}
		return false
	})
	m.enemies = slices.DeleteFunc(m.enemies, func(f *formation.Formation) bool { return f.Removed() })
}

// RefreshTerrain recomputes only the terrain array, e.g. after a settlement
// is destroyed.
func (m *Map) RefreshTerrain() {
	for i, cell := range m.grid.Cells {
		if m.grid.IsUnpassable(i) {
			m.Terrain[i] = 0
			continue
		}
		score := floorDiv(cell.Elevation-1, 2)
		if cell.Structure {
			score += structureBonus
		}
		if cell.Cover {
			score += coverBonus
		}
		m.Terrain[i] = max(score, 0)
	}
}

func (m *Map) refreshFriends() {
	for i, cell := range m.grid.Cells {
		total := 0
		for _, f := range m.friends {
			inf := m.formationInfluence(cell, f)
			m.self[f][i] = inf
			total += inf
		}
		m.Friend[i] = total
	}
}

func (m *Map) refreshEnemies() {
	for i, cell := range m.grid.Cells {
		total := 0
		for _, f := range m.enemies {
			total += m.formationInfluence(cell, f)
		}
		m.Enemy[i] = total
	}
}

// UpdateOverall recomputes overall = friend - enemy + terrain for every cell
// and returns the live overall array.
func (m *Map) UpdateOverall() []int {
	for i := range m.Overall {
		m.Overall[i] = m.Friend[i] - m.Enemy[i] + m.Terrain[i]
	}
	return m.Overall
}

// formationInfluence is the presence of one formation on one cell: ranged and
// melee reach, minus the melee reach again when the cell is an exposed flank.
func (m *Map) formationInfluence(cell *hexgrid.Cell, f *formation.Formation) int {
	ranged, melee, weak := 0, 0, false
	for _, unit := range f.Units() {
		if unit.IsRangeSlot(cell) {
			ranged += unit.RangedAttack
		}
		if unit.IsMeleeSlot(m.grid, cell) {
			melee += unit.MeleeAttack
		}
		if !weak && unit.IsWeakSlot(m.grid, cell) {
			weak = true
		}
	}
	inf := ranged + melee
	if weak {
		inf -= melee
	}
	return inf
}

// SelfInfluence returns the live contribution array of a friendly formation.
func (m *Map) SelfInfluence(f *formation.Formation) ([]int, error) {
	self, ok := m.self[f]
	if !ok {
		return nil, fmt.Errorf("self influence of %v: %w", f, ErrNotRegistered)
	}
	return self, nil
}

// Snapshot returns the overall map with f's own presence removed. The result
// is a fresh array owned by the caller.
func (m *Map) Snapshot(f *formation.Formation) ([]int, error) {
	self, err := m.SelfInfluence(f)
	if err != nil {
		return nil, err
	}
	return ReduceSelf(m.UpdateOverall(), self)
}

// ReduceSelf returns overall - self element-wise in a new array.
func ReduceSelf(overall, self []int) ([]int, error) {
	if len(overall) != len(self) {
		return nil, fmt.Errorf("reduce %d cells by %d: %w", len(overall), len(self), ErrLengthMismatch)
	}
	reduced := make([]int, len(overall))
	for i := range overall {
		reduced[i] = overall[i] - self[i]
	}
	return reduced, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
