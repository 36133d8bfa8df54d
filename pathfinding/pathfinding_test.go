package pathfinding

import (
	"tactics/hexgrid"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockUnit struct{}

func indices(path []*hexgrid.Cell) []int {
	out := make([]int, len(path))
	for i, cell := range path {
		out[i] = cell.Index
	}
	return out
}

func TestAStar(t *testing.T) {
	t.Run("straight line returns every cell with summed terrain cost", func(t *testing.T) {
		const n = 8
		grid := hexgrid.NewRectGrid(n, 1)
		grid.Cells[2].Terrain = hexgrid.TerrainForest
		grid.Cells[5].Terrain = hexgrid.TerrainField

		path, err := AStar(grid, 0, n-1)

		require.NoError(t, err)
		require.Len(t, path, n)
		require.Equal(t, grid.Cells[n-1], path[0])
		require.Equal(t, []int{7, 6, 5, 4, 3, 2, 1, 0}, indices(path), "Path should run destination first")
		expected := 0
		for i := 0; i < n-1; i++ {
			expected += grid.Cells[i].Terrain.Cost()
		}
		require.Equal(t, expected, PathCost(grid, path))
	})

	t.Run("same cell returns a single step path", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(3, 3)
		path, err := AStar(grid, 4, 4)
		require.NoError(t, err)
		require.Equal(t, []int{4}, indices(path))
		require.Equal(t, 0, PathCost(grid, path))
	})

	t.Run("walls are routed around", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(5, 3)
		wall := grid.At(hexgrid.FromOffset(2, 1))
		wall.Elevation = 9
		from := grid.At(hexgrid.FromOffset(0, 1))
		to := grid.At(hexgrid.FromOffset(4, 1))

		path, err := AStar(grid, from.Index, to.Index)

		require.NoError(t, err)
		require.NotContains(t, indices(path), wall.Index)
		require.Less(t, PathCost(grid, path), hexgrid.Unpassable)
		for i := len(path) - 1; i > 0; i-- {
			require.True(t, grid.IsNeighbor(path[i].Index, path[i-1].Index), "Consecutive steps should be adjacent")
		}
	})

	t.Run("exhausted budget without reaching the goal fails", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(30, 30)
		_, err := AStar(grid, 0, grid.Len()-1, WithMaxExpansions(3))
		require.ErrorIs(t, err, ErrNoPath)
	})

	t.Run("exhausted budget still uses a route that reached the goal", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(4, 1)
		path, err := AStar(grid, 0, 3, WithMaxExpansions(3))
		require.NoError(t, err)
		require.Equal(t, []int{3, 2, 1, 0}, indices(path))
	})

	t.Run("cells reached again by a cheaper route are expanded once", func(t *testing.T) {
		cells := hexgrid.NewRectGrid(6, 2).Cells
		cells[1].Terrain = hexgrid.TerrainForest
		cells = append(cells, &hexgrid.Cell{Coord: hexgrid.FromOffset(9, 0), Elevation: 1, Terrain: hexgrid.TerrainPlain})
		grid := hexgrid.NewGrid(cells)
		require.Empty(t, grid.Neighbors(12), "Goal is cut off from the rest")

		cameFrom, expansions := search(grid, 0, 12, newOptions(nil))

		require.Equal(t, 12, expansions, "Every reachable cell counts once against the budget")
		require.Equal(t, 6, cameFrom[7], "Route through the plain replaces the one through the forest")

		_, err := AStar(grid, 0, 12)
		require.ErrorIs(t, err, ErrNoPath)
	})

	t.Run("out of range indices fail", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(2, 2)
		_, err := AStar(grid, 0, 9)
		require.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("occupied goals are still reachable at sentinel cost", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(3, 1)
		require.NoError(t, grid.Occupy(2, &mockUnit{}))
		path, err := AStar(grid, 0, 2)
		require.NoError(t, err)
		require.Equal(t, []int{2, 1, 0}, indices(path))
		require.GreaterOrEqual(t, PathCost(grid, path), hexgrid.Unpassable)
	})
}

func TestCostTo(t *testing.T) {
	grid := hexgrid.NewRectGrid(5, 1)
	grid.Cells[1].Terrain = hexgrid.TerrainGrass
	path, err := AStar(grid, 0, 4)
	require.NoError(t, err)

	require.Equal(t, 0, CostTo(grid, grid.Cells[0], path))
	require.Equal(t, 1, CostTo(grid, grid.Cells[1], path))
	require.Equal(t, 5, CostTo(grid, grid.Cells[2], path))
	require.Equal(t, 0, CostTo(grid, grid.Cells[0], nil))
}

func TestNextStep(t *testing.T) {
	grid := hexgrid.NewRectGrid(6, 1)
	grid.Cells[2].Terrain = hexgrid.TerrainForest
	path, err := AStar(grid, 0, 5)
	require.NoError(t, err)

	t.Run("stops before the step that exceeds the budget", func(t *testing.T) {
		index := NextStep(grid, path, 3)
		require.Equal(t, 2, path[index].Index, "0->1->2 costs 2, 2->3 costs 4 more")
	})

	t.Run("reaches the destination with enough budget", func(t *testing.T) {
		require.Equal(t, 0, NextStep(grid, path, 100))
	})

	t.Run("stays put when the first step is too expensive", func(t *testing.T) {
		require.Equal(t, len(path)-1, NextStep(grid, path, 0))
	})

	t.Run("empty path has no step", func(t *testing.T) {
		require.Equal(t, -1, NextStep(grid, nil, 5))
	})
}

func TestNearestReachable(t *testing.T) {
	t.Run("passable start returns itself", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(3, 3)
		cell, err := NearestReachable(grid, 4)
		require.NoError(t, err)
		require.Equal(t, 4, cell.Index)
	})

	t.Run("occupied start returns an adjacent free cell", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(3, 3)
		require.NoError(t, grid.Occupy(4, &mockUnit{}))
		cell, err := NearestReachable(grid, 4)
		require.NoError(t, err)
		require.True(t, grid.IsNeighbor(4, cell.Index))
	})

	t.Run("grid without passable cells fails", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(4, 4)
		for _, cell := range grid.Cells {
			cell.Elevation = -1
		}
		_, err := NearestReachable(grid, 0)
		require.ErrorIs(t, err, ErrNoReachableCell)
	})

	t.Run("free cells beyond max depth are not found", func(t *testing.T) {
		grid := hexgrid.NewRectGrid(6, 1)
		for _, cell := range grid.Cells[:5] {
			cell.Terrain = hexgrid.TerrainLava
		}
		_, err := NearestReachable(grid, 0, WithMaxDepth(3))
		require.ErrorIs(t, err, ErrNoReachableCell)

		cell, err := NearestReachable(grid, 0, WithMaxDepth(5))
		require.NoError(t, err)
		require.Equal(t, 5, cell.Index)
	})
}
