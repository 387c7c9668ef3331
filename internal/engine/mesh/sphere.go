package mesh

import (
	gomath "math"

	"github.com/Faultbox/skyfield/pkg/math"
)

// GenerateSphere replaces the mesh contents with a latitude/longitude
// sphere of the given radius. Normals, texture coordinates and tangents
// are produced analytically, so the sphere is ready for bump mapping
// without any recomputation. rings and sectors are clamped to at
// least 3. GPU buffers are not built here.
func (m *Mesh) GenerateSphere(rings, sectors int, radius float32) {
	if rings < 3 {
		rings = 3
	}
	if sectors < 3 {
		sectors = 3
	}

	m.Clear()

	for r := 0; r <= rings; r++ {
		theta := gomath.Pi * float64(r) / float64(rings)
		sinT, cosT := gomath.Sin(theta), gomath.Cos(theta)
		for s := 0; s <= sectors; s++ {
			phi := 2 * gomath.Pi * float64(s) / float64(sectors)
			sinP, cosP := gomath.Sin(phi), gomath.Cos(phi)

			n := math.Vec3{
				X: float32(sinT * sinP),
				Y: float32(cosT),
				Z: float32(sinT * cosP),
			}
			m.vertices = append(m.vertices, n.Scale(radius))
			m.normals = append(m.normals, n)
			m.texCoords = append(m.texCoords, math.Vec2{
				X: float32(s) / float32(sectors),
				Y: float32(r) / float32(rings),
			})
			// Tangent points along increasing longitude.
			m.tangents = append(m.tangents, math.Vec3{
				X: float32(cosP),
				Y: 0,
				Z: float32(-sinP),
			})
		}
	}

	stride := uint32(sectors + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			i := uint32(r)*stride + uint32(s)
			m.triangles = append(m.triangles,
				Triangle{i, i + stride, i + 1},
				Triangle{i + 1, i + stride, i + stride + 1},
			)
		}
	}

	m.RecomputeBounds()
}
