package searcher

import (
	"tactics/strategy"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	influence := []int{0, 2, 0, 5, -1}

	t.Run("expansion adds one child per positive cell", func(t *testing.T) {
		tr := newTree(strategy.NewState(influence, 0, 0, nil))
		require.Equal(t, 2, tr.expand(0))

		targets := []int{}
		for _, child := range tr.root().children {
			require.Equal(t, 1, tr.nodes[child].depth)
			require.Equal(t, 0, tr.nodes[child].parent)
			targets = append(targets, tr.nodes[child].state.Target)
		}
		require.Equal(t, []int{1, 3}, targets)
	})

	t.Run("selection prefers unvisited children", func(t *testing.T) {
		tr := newTree(strategy.NewState(influence, 0, 0, nil))
		tr.expand(0)
		first, second := tr.root().children[0], tr.root().children[1]

		require.Equal(t, first, tr.selects(DefaultExplorationWeight))
		tr.backup(first, 100)
		require.Equal(t, second, tr.selects(DefaultExplorationWeight), "Unvisited child beats any visited one")
	})

	t.Run("backup keeps the best result on the whole path", func(t *testing.T) {
		tr := newTree(strategy.NewState(influence, 0, 0, nil))
		tr.expand(0)
		child := tr.root().children[1]
		tr.expand(child)
		leaf := tr.nodes[child].children[0]

		tr.backup(leaf, 5)
		tr.backup(leaf, 2)

		for _, i := range []int{leaf, child, 0} {
			require.Equal(t, 5, tr.nodes[i].state.WinScore)
			require.Equal(t, 2, tr.nodes[i].state.Visits)
		}
	})

	t.Run("best child keeps the first of equal scores", func(t *testing.T) {
		tr := newTree(strategy.NewState(influence, 0, 0, nil))
		_, ok := tr.bestChild(0)
		require.False(t, ok)

		tr.expand(0)
		tr.backup(tr.root().children[0], 4)
		tr.backup(tr.root().children[1], 4)
		best, ok := tr.bestChild(0)
		require.True(t, ok)
		require.Equal(t, tr.root().children[0], best)
	})

	t.Run("subtree rebases depths and drops siblings", func(t *testing.T) {
		tr := newTree(strategy.NewState(influence, 0, 0, nil))
		tr.expand(0)
		child := tr.root().children[1]
		tr.expand(child)
		tr.expand(tr.nodes[child].children[0])

		sub := tr.subtree(child)

		require.Equal(t, 1+2+2, sub.size())
		require.Equal(t, noParent, sub.root().parent)
		require.Equal(t, 3, sub.root().state.Target)
		for i, n := range sub.nodes {
			if i == 0 {
				require.Equal(t, 0, n.depth)
				continue
			}
			require.Equal(t, sub.nodes[n.parent].depth+1, n.depth)
			require.Contains(t, sub.nodes[n.parent].children, i)
		}
	})
}
