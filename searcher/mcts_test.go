package searcher

import (
	"tactics/hexgrid"
	"tactics/strategy"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newSeeded(options ...Option) *MCTS {
	return NewMCTS(append([]Option{WithRand(rand.New(rand.NewSource(1)))}, options...)...)
}

func TestNextMove(t *testing.T) {
	t.Run("picks the highest influence child", func(t *testing.T) {
		cases := []struct {
			influence []int
			start     int
			expected  int
		}{
			{influence: []int{5, 2, -1, 0, 0}, start: 5, expected: 0},
			{influence: []int{0, 2, 0, 5, -1}, start: 0, expected: 3},
		}
		for _, c := range cases {
			m := newSeeded(WithMaxSearchStep(10), WithMaxExpandLevel(1))
			m.Initialize(strategy.NewState(c.influence, c.start, c.start, nil), strategy.Naive{})

			state, err := m.NextMove()

			require.NoError(t, err)
			require.Equal(t, c.expected, state.Target)
			require.Equal(t, c.expected, state.Current, "Playout advances the current cell")
			require.Equal(t, c.influence[c.expected], state.WinScore)
		}
	})

	t.Run("fails before initialization", func(t *testing.T) {
		m := newSeeded()
		_, err := m.NextMove()
		require.ErrorIs(t, err, ErrNotInitialized)

		_, err = m.Root()
		require.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("zero search steps return the root unchanged", func(t *testing.T) {
		m := newSeeded(WithMaxSearchStep(0))
		root := strategy.NewState([]int{0, 2, 0, 5, -1}, 2, 2, nil)
		m.Initialize(root, nil)

		state, err := m.NextMove()

		require.NoError(t, err)
		require.Equal(t, root, state)
	})

	t.Run("no positive cells keep the root", func(t *testing.T) {
		m := newSeeded(WithMaxSearchStep(5))
		m.Initialize(strategy.NewState([]int{0, -1, 0}, 1, 1, nil), strategy.Naive{})

		state, err := m.NextMove()

		require.NoError(t, err)
		require.Equal(t, 1, state.Target)
		require.Equal(t, 5, state.Visits)
	})

	t.Run("tree is reused with the chosen child as root", func(t *testing.T) {
		m := newSeeded(WithMaxSearchStep(30), WithMaxExpandLevel(3))
		m.Initialize(strategy.NewState([]int{0, 2, 0, 5, -1}, 0, 0, nil), strategy.Naive{})

		for round := 0; round < 3; round++ {
			state, err := m.NextMove()
			require.NoError(t, err)
			require.Contains(t, []int{1, 3}, state.Target)

			require.Equal(t, 0, m.tree.root().depth, "Root is always at depth 0")
			require.Equal(t, noParent, m.tree.root().parent)
			for i, n := range m.tree.nodes[1:] {
				require.Equal(t, m.tree.nodes[n.parent].depth+1, n.depth, "node %d", i+1)
				require.LessOrEqual(t, n.depth, 3)
			}
		}
	})

	t.Run("shortest path playout discounts distant cells", func(t *testing.T) {
		influence := make([]int, 30)
		influence[1] = 3
		influence[29] = 4 // 4 - 29/10 = 2
		m := newSeeded(WithMaxSearchStep(2), WithMaxExpandLevel(1))
		m.Initialize(strategy.NewState(influence, 0, 0, hexgrid.NewRectGrid(30, 1)), strategy.ShortestPath{})

		state, err := m.NextMove()

		require.NoError(t, err)
		require.Equal(t, 1, state.Target)
	})
}

func TestSearchMetrics(t *testing.T) {
	m := newSeeded(WithMaxSearchStep(10), WithMaxExpandLevel(1), WithMetrics())
	m.Initialize(strategy.NewState([]int{0, 2, 0, 5, -1}, 0, 0, nil), strategy.Naive{})

	_, err := m.NextMove()
	require.NoError(t, err)
	metric := m.Metrics()
	require.Equal(t, 10, metric.Episodes)
	require.Equal(t, 1, metric.Expansions)
	require.Equal(t, 1, metric.TreeSize)
	require.Equal(t, "naive", metric.Playout)
	require.True(t, metric.IsTreeReset)

	_, err = m.NextMove()
	require.NoError(t, err)
	require.False(t, m.Metrics().IsTreeReset, "Second round reuses the tree")
}
