package strategy

import (
	"fmt"
	"tactics/hexgrid"
)

const DefaultPlayoutDivisor = 10

// Playout simulates reaching the state's target, returns the reward and
// advances the state's current position to the target.
type Playout interface {
	Simulate(s *State) int
	Name() string
}

// Naive rewards the raw influence of the target.
type Naive struct{}

func (Naive) Name() string { return "naive" }

func (Naive) Simulate(s *State) int {
	if !s.validTarget() {
		return 0
	}
	result := s.Influence[s.Target]
	s.Current = s.Target
	return result
}

// ShortestPath rewards the target's influence minus the hex distance to it
// divided by Divisor (10 when unset).
type ShortestPath struct {
	Divisor int
}

func (ShortestPath) Name() string { return "shortest-path" }

func (p ShortestPath) Simulate(s *State) int {
	if s.Grid == nil {
		panic("shortest path playout needs a grid in the search state")
	}
	if !s.validTarget() || !s.Grid.InRange(s.Current) || !s.Grid.InRange(s.Target) {
		return 0
	}
	divisor := p.Divisor
	if divisor <= 0 {
		divisor = DefaultPlayoutDivisor
	}
	distance := hexgrid.Distance(s.Grid.Cells[s.Current].Coord, s.Grid.Cells[s.Target].Coord)
	result := s.Influence[s.Target] - distance/divisor
	s.Current = s.Target
	return result
}

// PlayoutByName resolves a configured playout policy. divisor scales the
// distance penalty of shortest-path; zero keeps the default.
func PlayoutByName(name string, divisor int) (Playout, error) {
	switch name {
	case "", "naive":
		return Naive{}, nil
	case "shortest-path":
		return ShortestPath{Divisor: divisor}, nil
	default:
		return nil, fmt.Errorf("playout %q: %w", name, ErrUnknownPolicy)
	}
}
