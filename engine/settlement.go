package engine

import (
	"tactics/formation"
	"tactics/hexgrid"

	"github.com/rs/zerolog/log"
)

// raid lets every hostile unit standing on a settlement damage it. Damage
// spreads to every settlement cell connected to the one attacked.
func (e *Engine) raid() {
	burned := false
	for _, raider := range e.Formations(formation.Hostile) {
		for _, unit := range raider.Units() {
			if unit.Cell == nil || !unit.Cell.Structure {
				continue
			}
			for _, cell := range e.settlement(unit.Cell) {
				if e.damage(cell, unit.MeleeAttack) {
					burned = true
				}
			}
		}
	}
	if !burned {
		return
	}

	e.Friendly.RefreshTerrain()
	e.Hostile.RefreshTerrain()
	for _, d := range e.deciders {
		if d.Target != nil && !d.Target.Structure && d.Formation.Status == formation.StatusAttackStructure {
			d.Retarget()
		}
	}
}

// settlement returns the cells of the settlement around start, start first.
func (e *Engine) settlement(start *hexgrid.Cell) []*hexgrid.Cell {
	cells := []*hexgrid.Cell{}
	visited := map[int]bool{start.Index: true}
	queue := []*hexgrid.Cell{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		cells = append(cells, curr)
		for _, n := range e.Grid.Neighbors(curr.Index) {
			if n.Structure && !visited[n.Index] {
				visited[n.Index] = true
				queue = append(queue, n)
			}
		}
	}
	return cells
}

// damage reports whether the hit destroyed the structure on cell.
func (e *Engine) damage(cell *hexgrid.Cell, amount int) bool {
	health, ok := e.structures[cell.Index]
	if !ok {
		return false
	}
	health -= amount
	if health > 0 {
		e.structures[cell.Index] = health
		return false
	}

	delete(e.structures, cell.Index)
	cell.Structure = false
	e.destroyed++
	log.Info().Msgf("settlement at cell %d burned down on tick %d", cell.Index, e.tick)
	return true
}

// StructureHealth returns the remaining health of the settlement on cell i.
func (e *Engine) StructureHealth(i int) (int, bool) {
	health, ok := e.structures[i]
	return health, ok
}
