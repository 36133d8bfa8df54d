// Package gen builds battlefields for the command line runner and the
// experiments. It layers simplex noise into elevation and terrain, then
// scatters ground cover and settlements.
package gen

import (
	"math"
	"tactics/hexgrid"

	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/exp/rand"
)

type Config struct {
	Width         int     `yaml:"width"`          // Cells per row
	Height        int     `yaml:"height"`         // Rows
	Seed          uint64  `yaml:"seed"`           // Noise seed (0 = random)
	MaxElevation  int     `yaml:"max_elevation"`  // Elevation range before shifting below sea level
	NoiseScale    float64 `yaml:"noise_scale"`    // Base noise frequency
	NoiseLayers   int     `yaml:"noise_layers"`   // Octaves
	CoverDensity  float64 `yaml:"cover_density"`  // Chance of ground cover on grass and forest cells
	StructureRate float64 `yaml:"structure_rate"` // Chance of a settlement on soil and rock cells
}

func DefaultConfig() Config {
	return Config{
		Width:         24,
		Height:        18,
		MaxElevation:  9,
		NoiseScale:    0.09,
		NoiseLayers:   3,
		CoverDensity:  0.4,
		StructureRate: 0.15,
	}
}

// Generate returns a row-major grid of Width x Height cells.
func Generate(cfg Config) *hexgrid.Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewSource(seed))
	elevNoise := opensimplex.NewNormalized(int64(seed))
	terrainNoise := opensimplex.NewNormalized(int64(seed) + 1)

	maxElevation := max(cfg.MaxElevation, 3)
	cells := make([]*hexgrid.Cell, 0, cfg.Width*cfg.Height)
	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			x := float64(col) + float64(row%2)*0.5
			y := float64(row) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, cfg.NoiseLayers, cfg.NoiseScale, 0.25)
			elevation := int(elev*float64(maxElevation))%maxElevation - 2
			if elevation <= 0 {
				elevation--
			}

			cell := &hexgrid.Cell{
				Coord:     hexgrid.FromOffset(col, row),
				Elevation: elevation,
				Terrain:   deriveTerrain(octaveNoise(terrainNoise, x, y, cfg.NoiseLayers, cfg.NoiseScale*2, 0.5), elevation, maxElevation),
			}
			switch cell.Terrain {
			case hexgrid.TerrainGrass, hexgrid.TerrainForest:
				cell.Cover = rng.Float64() < cfg.CoverDensity
			case hexgrid.TerrainSoil, hexgrid.TerrainRock:
				cell.Structure = elevation > 0 && rng.Float64() < cfg.StructureRate
			}
			cells = append(cells, cell)
		}
	}
	return hexgrid.NewGrid(cells)
}

func deriveTerrain(noise float64, elevation, maxElevation int) hexgrid.Terrain {
	if elevation < 0 {
		return hexgrid.TerrainShallows
	}
	if elevation >= maxElevation-3 {
		return hexgrid.TerrainWall
	}
	switch index := int(noise*10) % 10; {
	case index < 3:
		return hexgrid.TerrainPlain
	case index < 4:
		return hexgrid.TerrainField
	case index < 5:
		return hexgrid.TerrainSoil
	case index < 6:
		return hexgrid.TerrainRock
	case index < 8:
		return hexgrid.TerrainGrass
	case index < 9:
		return hexgrid.TerrainForest
	default:
		return hexgrid.TerrainLava
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < max(octaves, 1); i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
