package room

import (
	gomath "math"

	"github.com/Faultbox/creaoverse/internal/engine/primitive"
	"github.com/Faultbox/creaoverse/internal/engine/scene"
	"github.com/Faultbox/creaoverse/pkg/math"
)

// Tile opacity for the two states.
const (
	ActiveOpacity   = 1
	InactiveOpacity = 0.1
)

// Tile is one cell of the street grid. Each tile owns its material so its
// opacity can change independently.
type Tile struct {
	I, J   int
	Active bool
	Entity *scene.Entity
}

// Grid is an n x n set of ground tiles centred on the origin. Tile (i, j)
// has index i + j*n; i runs along X and j along Z.
type Grid struct {
	n     int
	size  float32
	root  *scene.Entity
	tiles []Tile
}

// NewGrid builds the tiles under a new "grid" entity. All tiles start
// inactive.
func NewGrid(n int, tileSize float32, color scene.Color) *Grid {
	g := &Grid{n: n, size: tileSize, root: scene.New("grid"), tiles: make([]Tile, n*n)}
	shape := primitive.Plane(tileSize, tileSize)
	for j := range n {
		for i := range n {
			m := scene.NewMaterial(color)
			m.DoubleSided = true
			m.SetOpacity(InactiveOpacity)
			e := scene.NewMesh("tile", shape, m).Tag(scene.TagTile)
			e.Transform.Position = g.WorldPosition(i, j)
			e.Transform.Rotation.X = -gomath.Pi / 2
			g.root.MustAdd(e)
			g.tiles[g.Index(i, j)] = Tile{I: i, J: j, Entity: e}
		}
	}
	return g
}

// Root returns the entity holding every tile.
func (g *Grid) Root() *scene.Entity { return g.root }

// Divisions returns n.
func (g *Grid) Divisions() int { return g.n }

// TileSize returns the edge length of a tile.
func (g *Grid) TileSize() float32 { return g.size }

// Len returns the number of tiles.
func (g *Grid) Len() int { return len(g.tiles) }

// Index maps grid coordinates to a tile index.
func (g *Grid) Index(i, j int) int {
	return i + j*g.n
}

// Coord maps a tile index back to grid coordinates.
func (g *Grid) Coord(index int) (i, j int) {
	return index % g.n, index / g.n
}

// InBounds reports whether (i, j) lies on the grid.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.n && j >= 0 && j < g.n
}

// WorldPosition returns the centre of tile (i, j) in room space.
func (g *Grid) WorldPosition(i, j int) math.Vec3 {
	half := float32(g.n) / 2
	return math.V3((float32(i)-half+0.5)*g.size, 0, (float32(j)-half+0.5)*g.size)
}

// Tile returns the tile at index.
func (g *Grid) Tile(index int) (Tile, bool) {
	if index < 0 || index >= len(g.tiles) {
		return Tile{}, false
	}
	return g.tiles[index], true
}

// IndexOf returns the index of the tile owning e.
func (g *Grid) IndexOf(e *scene.Entity) (int, bool) {
	for idx, t := range g.tiles {
		if t.Entity == e {
			return idx, true
		}
	}
	return 0, false
}

// Set sets a tile's state. Out-of-range indexes are ignored.
func (g *Grid) Set(index int, active bool) bool {
	if index < 0 || index >= len(g.tiles) {
		return false
	}
	t := &g.tiles[index]
	t.Active = active
	if active {
		t.Entity.Mesh.Material.SetOpacity(ActiveOpacity)
	} else {
		t.Entity.Mesh.Material.SetOpacity(InactiveOpacity)
	}
	return true
}

// Toggle flips a tile and reports whether the index was valid.
func (g *Grid) Toggle(index int) bool {
	if index < 0 || index >= len(g.tiles) {
		return false
	}
	return g.Set(index, !g.tiles[index].Active)
}

// ActiveCount returns the number of active tiles.
func (g *Grid) ActiveCount() int {
	n := 0
	for _, t := range g.tiles {
		if t.Active {
			n++
		}
	}
	return n
}

// RoadPath returns the L-shaped road: row j=half from i=0 to half, then
// column i=half from j=half to n-1, with half = n/2 rounded down.
func (g *Grid) RoadPath() []int {
	half := g.n / 2
	path := make([]int, 0, g.n+1)
	for i := 0; i <= half; i++ {
		path = append(path, g.Index(i, half))
	}
	for j := half + 1; j < g.n; j++ {
		path = append(path, g.Index(half, j))
	}
	return path
}

// ActivateRoadPath marks every road tile active. It is idempotent.
func (g *Grid) ActivateRoadPath() {
	for _, idx := range g.RoadPath() {
		g.Set(idx, true)
	}
}
