package gen

import (
	"tactics/hexgrid"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	t.Run("builds a full rectangle", func(t *testing.T) {
		grid := Generate(cfg)
		require.Equal(t, cfg.Width*cfg.Height, grid.Len())
		for i, cell := range grid.Cells {
			require.Equal(t, i, cell.Index)
			require.True(t, cell.Coord.Valid())
		}
	})

	t.Run("same seed yields the same battlefield", func(t *testing.T) {
		a, b := Generate(cfg), Generate(cfg)
		for i := range a.Cells {
			require.Equal(t, a.Cells[i].Elevation, b.Cells[i].Elevation)
			require.Equal(t, a.Cells[i].Terrain, b.Cells[i].Terrain)
			require.Equal(t, a.Cells[i].Cover, b.Cells[i].Cover)
			require.Equal(t, a.Cells[i].Structure, b.Cells[i].Structure)
		}
	})

	t.Run("cover and settlements only appear on matching terrain", func(t *testing.T) {
		grid := Generate(cfg)
		for _, cell := range grid.Cells {
			if cell.Cover {
				require.Contains(t, []hexgrid.Terrain{hexgrid.TerrainGrass, hexgrid.TerrainForest}, cell.Terrain)
			}
			if cell.Structure {
				require.Contains(t, []hexgrid.Terrain{hexgrid.TerrainSoil, hexgrid.TerrainRock}, cell.Terrain)
			}
		}
	})

	t.Run("underwater cells are shallows", func(t *testing.T) {
		grid := Generate(cfg)
		for _, cell := range grid.Cells {
			if cell.Elevation < 0 {
				require.Equal(t, hexgrid.TerrainShallows, cell.Terrain)
			}
		}
	})
}
