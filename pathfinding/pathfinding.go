package pathfinding

import (
	"container/heap"
	"errors"
	"fmt"
	"tactics/hexgrid"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxExpansions = 500
	DefaultMaxDepth      = 30
)

var (
	ErrNoPath          = errors.New("no path to target")
	ErrNoReachableCell = errors.New("no reachable cell")
	ErrOutOfRange      = errors.New("cell index out of range")
)

type Option func(o *options)

type options struct {
	maxExpansions int
	maxDepth      int
}

func WithMaxExpansions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxExpansions = n
		}
	}
}

func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{ // Default values
		maxExpansions: DefaultMaxExpansions,
		maxDepth:      DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// AStar searches for the cheapest route from one cell to another and returns
// it destination first, source last. The search expands at most
// maxExpansions cells; when the budget runs out the route found so far to
// the goal is used, if there is one.
func AStar(grid *hexgrid.Grid, from, to int, opts ...Option) ([]*hexgrid.Cell, error) {
	if !grid.InRange(from) || !grid.InRange(to) {
		return nil, fmt.Errorf("path %d -> %d: %w", from, to, ErrOutOfRange)
	}
	cameFrom, _ := search(grid, from, to, newOptions(opts))
	return constructPath(grid, from, to, cameFrom)
}

// search runs A* and returns the parent links found together with the number
// of cells expanded. Heap entries superseded by a cheaper route are skipped
// and do not count against the budget.
func search(grid *hexgrid.Grid, from, to int, o options) (map[int]int, int) {
	goal := grid.Cells[to]
	cameFrom := map[int]int{from: from}
	costSoFar := map[int]int{from: 0}
	open := &frontier{}
	seq := 0
	heap.Push(open, item{cell: from, priority: hexgrid.Distance(grid.Cells[from].Coord, goal.Coord), seq: seq})

	expansions := 0
	for open.Len() > 0 {
		it := heap.Pop(open).(item)
		curr := it.cell
		if it.priority > costSoFar[curr]+hexgrid.Distance(grid.Cells[curr].Coord, goal.Coord) {
			continue
		}
		if expansions >= o.maxExpansions {
			log.Warn().Msgf("A* reached max expansions %d searching %d -> %d", o.maxExpansions, from, to)
			break
		}
		if curr == to {
			break
		}
		for _, next := range grid.Neighbors(curr) {
			cost := costSoFar[curr] + grid.MoveCost(curr, next.Index)
			if known, ok := costSoFar[next.Index]; !ok || cost < known {
				costSoFar[next.Index] = cost
				cameFrom[next.Index] = curr
				seq++
				heap.Push(open, item{
					cell:     next.Index,
					priority: cost + hexgrid.Distance(next.Coord, goal.Coord),
					seq:      seq,
				})
			}
		}
		expansions++
	}
	return cameFrom, expansions
}

func constructPath(grid *hexgrid.Grid, from, to int, cameFrom map[int]int) ([]*hexgrid.Cell, error) {
	path := []*hexgrid.Cell{}
	curr := to
	for curr != from {
		prev, ok := cameFrom[curr]
		if !ok {
			return nil, fmt.Errorf("path %d -> %d: %w", from, to, ErrNoPath)
		}
		path = append(path, grid.Cells[curr])
		curr = prev
	}
	return append(path, grid.Cells[from]), nil
}

// PathCost sums the step costs of a path ordered destination first.
func PathCost(grid *hexgrid.Grid, path []*hexgrid.Cell) int {
	total := 0
	for i := len(path) - 1; i > 0; i-- {
		total += grid.MoveCost(path[i].Index, path[i-1].Index)
	}
	return total
}

// CostTo sums the step costs from the source end of path up to cell at.
func CostTo(grid *hexgrid.Grid, at *hexgrid.Cell, path []*hexgrid.Cell) int {
	if len(path) == 0 {
		return 0
	}
	total := 0
	index := len(path) - 1
	curr := path[index]
	for curr != at && index > 0 {
		next := path[index-1]
		total += grid.MoveCost(curr.Index, next.Index)
		curr = next
		index--
	}
	return total
}

// NextStep returns the index into path of the farthest cell reachable from
// the source end within budget. A path of one cell returns 0.
func NextStep(grid *hexgrid.Grid, path []*hexgrid.Cell, budget int) int {
	if len(path) == 0 {
		return -1
	}
	spent := 0
	prev := path[len(path)-1]
	for index := len(path) - 2; index >= 0; index-- {
		spent += grid.MoveCost(prev.Index, path[index].Index)
		if spent > budget {
			return index + 1
		}
		prev = path[index]
	}
	return 0
}

// NearestReachable walks outwards from start breadth first and returns the
// first cell a unit could move onto. At most maxDepth rings are searched.
func NearestReachable(grid *hexgrid.Grid, start int, opts ...Option) (*hexgrid.Cell, error) {
	if !grid.InRange(start) {
		return nil, fmt.Errorf("nearest reachable from %d: %w", start, ErrOutOfRange)
	}
	o := newOptions(opts)

	visited := map[int]bool{start: true}
	layer := []int{start}
	for depth := 0; depth <= o.maxDepth && len(layer) > 0; depth++ {
		next := []int{}
		for _, curr := range layer {
			if !grid.IsUnpassable(curr) {
				return grid.Cells[curr], nil
			}
			for _, n := range grid.Neighbors(curr) {
				if !visited[n.Index] {
					visited[n.Index] = true
					next = append(next, n.Index)
				}
			}
		}
		layer = next
	}

	log.Warn().Msgf("no reachable cell within %d steps of %d", o.maxDepth, start)
	return nil, fmt.Errorf("nearest reachable from %d: %w", start, ErrNoReachableCell)
}
