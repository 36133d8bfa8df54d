package hexgrid

// Unpassable is the move cost sentinel for cells that cannot be entered.
const Unpassable = 4194304

// MinElevation is the lowest elevation a unit can stand on.
const MinElevation = 0

type Terrain uint8

const (
	TerrainPlain    Terrain = iota // Open ground
	TerrainShallows                // Fordable water
	TerrainField                   // Farmland
	TerrainSoil                    // Bare earth around settlements
	TerrainRock                    // Rocky slopes
	TerrainGrass                   // Tall grass, slow going
	TerrainForest                  // Dense woods
	TerrainLava                    // Blocking
	TerrainWall                    // Blocking
)

var terrainNames = [...]string{"plain", "shallows", "field", "soil", "rock", "grass", "forest", "lava", "wall"}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// Blocking reports whether no unit may ever stand on this terrain.
func (t Terrain) Blocking() bool {
	return t == TerrainLava || t == TerrainWall
}

// Cost is the cost of leaving a cell of this terrain.
func (t Terrain) Cost() int {
	switch t {
	case TerrainPlain, TerrainShallows:
		return 1
	case TerrainField, TerrainSoil, TerrainRock:
		return 2
	case TerrainGrass, TerrainForest:
		return 4
	default:
		return Unpassable
	}
}

// Occupant is whatever unit stands on a cell.
type Occupant any

// Cell is one tile of the grid. Occupant is nil when no unit stands on it.
type Cell struct {
	Index     int
	Coord     Coord
	Elevation int
	Terrain   Terrain
	Occupant  Occupant
	Structure bool // A settlement stands on the cell
	Cover     bool // Ground cover hides units standing on it
}

func (c *Cell) Occupied() bool {
	return c.Occupant != nil
}
