package searcher

import (
	"math"
	"tactics/strategy"
)

const noParent = -1

type node struct {
	state    strategy.State
	parent   int
	children []int
	depth    int
}

// tree stores nodes in a flat arena. Index 0 is always the root.
type tree struct {
	nodes []node
}

func newTree(state strategy.State) *tree {
	return &tree{nodes: []node{{state: state, parent: noParent}}}
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// selects descends from the root through the child with the highest UCT
// value until it reaches a node without children.
func (t *tree) selects(weight float64) int {
	curr := 0
	for len(t.nodes[curr].children) > 0 {
		parentVisits := t.nodes[curr].state.Visits
		best, bestValue := -1, math.Inf(-1)
		for _, child := range t.nodes[curr].children {
			state := t.nodes[child].state
			value := uct(state.WinScore, state.Visits, parentVisits, weight)
			if best == -1 || value > bestValue {
				best, bestValue = child, value
			}
		}
		curr = best
	}
	return curr
}

// expand adds one child per candidate move of node i and returns how many
// were added.
func (t *tree) expand(i int) int {
	candidates := t.nodes[i].state.Candidates()
	for _, target := range candidates {
		child := node{
			state:  t.nodes[i].state.Next(target),
			parent: i,
			depth:  t.nodes[i].depth + 1,
		}
		t.nodes = append(t.nodes, child)
		t.nodes[i].children = append(t.nodes[i].children, len(t.nodes)-1)
	}
	return len(candidates)
}

// backup records a simulation result on node i and every ancestor. Win
// scores keep the best result seen rather than an average.
func (t *tree) backup(i, result int) {
	for i != noParent {
		state := &t.nodes[i].state
		state.Visits++
		state.WinScore = max(state.WinScore, result)
		i = t.nodes[i].parent
	}
}

// bestChild returns the first child of node i with the highest win score.
func (t *tree) bestChild(i int) (int, bool) {
	best := -1
	for _, child := range t.nodes[i].children {
		if best == -1 || t.nodes[child].state.WinScore > t.nodes[best].state.WinScore {
			best = child
		}
	}
	return best, best != -1
}

// subtree copies the subtree under node i into a new arena with i as root at
// depth 0. Nodes outside it are dropped.
func (t *tree) subtree(i int) *tree {
	offset := t.nodes[i].depth
	mapped := map[int]int{i: 0}
	sub := &tree{nodes: make([]node, 0, len(t.nodes))}

	queue := []int{i}
	for len(queue) > 0 {
		old := queue[0]
		queue = queue[1:]

		n := t.nodes[old]
		parent := noParent
		if old != i {
			parent = mapped[n.parent]
		}
		sub.nodes = append(sub.nodes, node{
			state:  n.state,
			parent: parent,
			depth:  n.depth - offset,
		})
		index := len(sub.nodes) - 1
		mapped[old] = index
		if parent != noParent {
			sub.nodes[parent].children = append(sub.nodes[parent].children, index)
		}
		queue = append(queue, n.children...)
	}
	return sub
}
