// Package terrain generates procedural terrain meshes with the fault
// algorithm: repeated random cut lines across the grid, each raising
// one side and lowering the other by a fixed displacement profile.
package terrain

import (
	gomath "math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/engine/mesh"
	"github.com/Faultbox/skyfield/internal/logger"
	"github.com/Faultbox/skyfield/pkg/math"
)

// Displacement profiles applied along each fault line. Cosine and sine
// produce rolling waves, the step profiles sheer cliffs. Two of the
// four values map to the step profile, so a random pick lands on a
// cliff terrain half the time.
const (
	DisplacementCosine = 0
	DisplacementSine   = 1
	DisplacementStep   = 2

	displacementKinds = 4
)

const displacementStrength = 0.1

// GenerateHeightmap runs the fault algorithm for the given number of
// iterations over a length x width grid and returns the resulting
// heights, indexed [x][z]. The same rng seed reproduces the same
// heightmap exactly. Zero iterations yield a flat grid.
func GenerateHeightmap(length, width, iterations, kind int, rng *rand.Rand) [][]float64 {
	heights := make([][]float64, length)
	for x := range heights {
		heights[x] = make([]float64, width)
	}

	d := gomath.Sqrt(float64(width*width + length*length))
	waveSize := d / 10

	for i := 0; i < iterations; i++ {
		// Random cut line a*x + b*z = c through the grid.
		v := rng.Float64() * 2 * gomath.Pi
		a := gomath.Sin(v)
		b := gomath.Cos(v)
		c := rng.Float64()*d - d/2

		for x := 0; x < length; x++ {
			for z := 0; z < width; z++ {
				dist := a*float64(x) + b*float64(z) - c
				switch kind {
				case DisplacementCosine:
					heights[x][z] += displacementStrength / 2 * gomath.Cos(dist/waveSize*gomath.Pi)
				case DisplacementSine:
					heights[x][z] += displacementStrength / 2 * gomath.Sin(dist/waveSize*gomath.Pi)
				default:
					if dist > 0 {
						heights[x][z] += displacementStrength
					} else {
						heights[x][z] -= displacementStrength
					}
				}
			}
		}
	}

	return heights
}

// BuildTerrain replaces the mesh contents with a length x width grid
// terrain generated from a randomly picked displacement profile. One
// vertex per grid cell at (x, height, z), two triangles per interior
// cell, per-vertex biome colors and area-weighted normals. The
// heightmap is returned so callers can place objects on the surface.
// GPU buffers are not built here.
func BuildTerrain(m *mesh.Mesh, length, width, iterations int, rng *rand.Rand) [][]float64 {
	kind := rng.Intn(displacementKinds)
	heights := GenerateHeightmap(length, width, iterations, kind, rng)
	BuildTerrainMesh(m, heights, kind)

	logger.Debug("generated terrain",
		zap.Int("length", length),
		zap.Int("width", width),
		zap.Int("iterations", iterations),
		zap.Int("kind", kind))
	return heights
}

// BuildTerrainMesh replaces the mesh contents with a grid built from an
// existing heightmap, colored for the given displacement profile. An
// empty heightmap clears the mesh.
func BuildTerrainMesh(m *mesh.Mesh, heights [][]float64, kind int) {
	length := len(heights)
	if length == 0 || len(heights[0]) == 0 {
		m.Clear()
		return
	}
	width := len(heights[0])

	vertices := make([]math.Vec3, 0, length*width)
	colors := make([]math.Vec3, 0, length*width)
	for x := 0; x < length; x++ {
		for z := 0; z < width; z++ {
			h := heights[x][z]
			vertices = append(vertices, math.Vec3{X: float32(x), Y: float32(h), Z: float32(z)})
			colors = append(colors, biomeColor(h, kind))
		}
	}

	// Two triangles per cell: (cell, right, below) and
	// (right, below, belowRight).
	triangles := make([]mesh.Triangle, 0, 2*(length-1)*(width-1))
	for x := 0; x < length-1; x++ {
		for z := 0; z < width-1; z++ {
			cell := uint32(x*width + z)
			right := cell + 1
			below := cell + uint32(width)
			belowRight := below + 1
			triangles = append(triangles,
				mesh.Triangle{cell, right, below},
				mesh.Triangle{right, below, belowRight},
			)
		}
	}

	m.SetGeometry(vertices, colors, triangles)
	m.RecomputeNormals()
	m.RecomputeBounds()
	m.SetColoringMode(mesh.ColorArray)
}

// Biome palette shared by both ramps.
var (
	deepWater    = math.Vec3{X: 0, Y: 0, Z: 0.5}
	shallowWater = math.Vec3{X: 0, Y: 0.5, Z: 1}
	sand         = math.Vec3{X: 0.93, Y: 0.87, Z: 0.5}
	lowLand      = math.Vec3{X: 0.2, Y: 0.8, Z: 0.2}
	grass        = math.Vec3{X: 0, Y: 0.6, Z: 0}
	forest       = math.Vec3{X: 0, Y: 0.4, Z: 0}
	mountain     = math.Vec3{X: 0.6, Y: 0.4, Z: 0.2}
	rock         = math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
	snow         = math.Vec3{X: 1, Y: 1, Z: 1}
)

// biomeColor maps a height to a terrain color. The step profile builds
// tall cliffs and gets the full ramp including deep water; the wave
// profiles stay near sea level, so their ramp is compressed and starts
// at shallow water.
func biomeColor(height float64, kind int) math.Vec3 {
	if kind >= DisplacementStep {
		switch {
		case height < -7:
			return deepWater
		case height < -4:
			return shallowWater
		case height < -3:
			return sand
		case height < 0:
			return lowLand
		case height < 5:
			return grass
		case height < 8:
			return forest
		case height < 9:
			return mountain
		case height < 10:
			return rock
		default:
			return snow
		}
	}
	switch {
	case height < -5.5:
		return shallowWater
	case height < -4.5:
		return sand
	case height < -3.5:
		return lowLand
	case height < -1.5:
		return grass
	case height < 0.5:
		return forest
	case height < 2:
		return mountain
	case height < 3.5:
		return rock
	default:
		return snow
	}
}
