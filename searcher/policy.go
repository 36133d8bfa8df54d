package searcher

import "math"

// Hyperparameters for MCTS

const DefaultExplorationWeight = 1.41

const (
	DefaultMaxSearchStep  = 30
	DefaultMaxExpandLevel = 5
)

// uct scores a child for selection given its parent's visit count.
// Unvisited children score +Inf so every child is tried once before any is
// revisited.
func uct(winScore, visits, parentVisits int, weight float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	exploit := float64(winScore) / float64(visits)
	if parentVisits < 1 {
		return exploit
	}
	// UCT = w/v + c*sqrt(ln(N)/v)
	return exploit + weight*math.Sqrt(math.Log(float64(parentVisits))/float64(visits))
}
