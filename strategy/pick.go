package strategy

import (
	"errors"
	"fmt"
	"math"
	"tactics/formation"
	"tactics/hexgrid"
)

const DefaultPickDivisor = 5

var (
	ErrUnsupportedStatus = errors.New("formation status not supported")
	ErrUnknownPolicy     = errors.New("unknown policy")
)

// Picker chooses a target cell directly from an influence vector. Only cells
// with strictly positive influence are eligible; the first best cell in
// index order wins, and index 0 is returned when nothing is eligible.
type Picker interface {
	Pick(current int, influence []int, grid *hexgrid.Grid) int
	Name() string
}

// Greedy picks the highest influence.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Pick(current int, influence []int, grid *hexgrid.Grid) int {
	best, bestScore := 0, math.MinInt
	for i, inf := range influence {
		if inf > 0 && inf > bestScore {
			bestScore = inf
			best = i
		}
	}
	return best
}

// OptimalInfluence picks the highest influence minus the hex distance from
// the current cell divided by Divisor (5 when unset).
type OptimalInfluence struct {
	Divisor int
}

func (OptimalInfluence) Name() string { return "optimal-influence" }

func (p OptimalInfluence) Pick(current int, influence []int, grid *hexgrid.Grid) int {
	if grid == nil || !grid.InRange(current) || grid.Len() < len(influence) {
		return 0
	}
	divisor := p.Divisor
	if divisor <= 0 {
		divisor = DefaultPickDivisor
	}
	from := grid.Cells[current].Coord
	best, bestScore := 0, math.MinInt
	for i, inf := range influence {
		if inf <= 0 {
			continue
		}
		score := inf - hexgrid.Distance(from, grid.Cells[i].Coord)/divisor
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// ForStatus returns the pick policy a formation uses in the given status.
// divisor scales the distance penalty of optimal-influence; zero keeps the
// default.
func ForStatus(status formation.Status, divisor int) (Picker, error) {
	switch status {
	case formation.StatusDefault:
		return Greedy{}, nil
	case formation.StatusAttackStructure, formation.StatusAttackEnemy:
		return OptimalInfluence{Divisor: divisor}, nil
	default:
		return nil, fmt.Errorf("pick policy for %v: %w", status, ErrUnsupportedStatus)
	}
}

// PickerByName resolves a configured pick policy.
func PickerByName(name string, divisor int) (Picker, error) {
	switch name {
	case "greedy":
		return Greedy{}, nil
	case "optimal-influence":
		return OptimalInfluence{Divisor: divisor}, nil
	default:
		return nil, fmt.Errorf("picker %q: %w", name, ErrUnknownPolicy)
	}
}
