package strategy

import "tactics/hexgrid"

// State is a candidate move: walk from Current to Target on an influence
// snapshot. Influence is shared by every state derived from the same search
// root and must not be written once a search starts. Grid is only needed by
// distance-aware policies.
type State struct {
	Influence []int
	Current   int
	Target    int
	WinScore  int
	Visits    int
	Grid      *hexgrid.Grid
}

func NewState(influence []int, current, target int, grid *hexgrid.Grid) State {
	return State{
		Influence: influence,
		Current:   current,
		Target:    target,
		Grid:      grid,
	}
}

// Candidates lists the cells with strictly positive influence.
func (s *State) Candidates() []int {
	candidates := []int{}
	for i, inf := range s.Influence {
		if inf > 0 {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

// Next returns the state of moving on to target from where s ends up.
func (s *State) Next(target int) State {
	return NewState(s.Influence, s.Current, target, s.Grid)
}

func (s *State) validTarget() bool {
	return s.Target >= 0 && s.Target < len(s.Influence)
}
