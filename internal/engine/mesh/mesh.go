// Package mesh implements the triangle mesh at the heart of the viewer:
// CPU-side geometry arrays, the derived bounding box, and the GPU buffer
// set built from them. A Mesh owns its GPU resources exclusively; use
// Adopt to transfer them between meshes, never copy the struct.
package mesh

import (
	gomath "math"

	"github.com/Faultbox/skyfield/internal/engine/glres"
	"github.com/Faultbox/skyfield/pkg/math"
)

// ColoringMode selects which color source the draw path consumes.
type ColoringMode int

const (
	// StaticColor uses the mesh's single fallback color.
	StaticColor ColoringMode = iota
	// ColorArray uses the per-vertex color buffer.
	ColorArray
	// Texture samples the bound 2D texture.
	Texture
	// BumpMapping uses diffuse/normal/displacement textures.
	BumpMapping
)

// Triangle indexes three vertices.
type Triangle [3]uint32

// Mesh holds triangle geometry and its GPU resources.
type Mesh struct {
	vertices  []math.Vec3
	normals   []math.Vec3
	triangles []Triangle
	colors    []math.Vec3
	texCoords []math.Vec2
	tangents  []math.Vec3

	staticColor math.Vec3
	mode        ColoringMode

	// Geometry buffers, owned by the mesh.
	vao          glres.Handle
	vboTriangles glres.Handle
	vboVertices  glres.Handle
	vboNormals   glres.Handle
	vboColors    glres.Handle
	vboTexCoords glres.Handle
	vboTangents  glres.Handle

	// Bounding-box wireframe and normal-visualization buffers.
	boxVAO    glres.Handle
	boxVBO    glres.Handle
	boxEBO    glres.Handle
	normalVAO glres.Handle
	normalVBO glres.Handle

	// Texture ids are references to textures owned by the scene's
	// texture cache; the mesh never deletes them.
	texture         glres.Handle
	normalMap       glres.Handle
	displacementMap glres.Handle

	showBoundingBox bool
	showNormals     bool

	useDiffuse      bool
	useNormalMap    bool
	useDisplacement bool

	bbMin  math.Vec3
	bbMax  math.Vec3
	bbMid  math.Vec3
	bbSize math.Vec3
}

// New returns an empty mesh with a white static color.
func New() *Mesh {
	m := &Mesh{}
	m.Clear()
	m.staticColor = math.Vec3{X: 1, Y: 1, Z: 1}
	return m
}

// Clear resets all CPU data, the bounding box and the draw-mode flags,
// and releases any GPU resources. The mesh is reusable afterwards.
func (m *Mesh) Clear() {
	m.vertices = nil
	m.normals = nil
	m.triangles = nil
	m.colors = nil
	m.texCoords = nil
	m.tangents = nil

	m.resetBounds()

	m.mode = StaticColor
	m.showBoundingBox = false
	m.showNormals = false
	m.texture.Reset()
	m.normalMap.Reset()
	m.displacementMap.Reset()

	m.ReleaseGPUResources()
}

func (m *Mesh) resetBounds() {
	inf := float32(gomath.Inf(1))
	m.bbMin = math.Vec3{X: inf, Y: inf, Z: inf}
	m.bbMax = math.Vec3{X: -inf, Y: -inf, Z: -inf}
	m.bbMid = math.Vec3{}
	m.bbSize = math.Vec3{}
}

// Vertices returns the vertex positions.
func (m *Mesh) Vertices() []math.Vec3 { return m.vertices }

// Normals returns the per-vertex normals.
func (m *Mesh) Normals() []math.Vec3 { return m.normals }

// Triangles returns the triangle index list.
func (m *Mesh) Triangles() []Triangle { return m.triangles }

// Colors returns the per-vertex colors.
func (m *Mesh) Colors() []math.Vec3 { return m.colors }

// TexCoords returns the per-vertex texture coordinates.
func (m *Mesh) TexCoords() []math.Vec2 { return m.texCoords }

// BoundsMin returns the bounding-box minimum corner.
func (m *Mesh) BoundsMin() math.Vec3 { return m.bbMin }

// BoundsMax returns the bounding-box maximum corner.
func (m *Mesh) BoundsMax() math.Vec3 { return m.bbMax }

// BoundsMid returns the bounding-box center.
func (m *Mesh) BoundsMid() math.Vec3 { return m.bbMid }

// BoundsSize returns the bounding-box extents.
func (m *Mesh) BoundsSize() math.Vec3 { return m.bbSize }

// SetColoringMode selects the color source for drawing.
func (m *Mesh) SetColoringMode(mode ColoringMode) { m.mode = mode }

// ColoringModeRequested returns the mode set by the caller, before
// resource-availability resolution.
func (m *Mesh) ColoringModeRequested() ColoringMode { return m.mode }

// SetStaticColor sets the fallback color.
func (m *Mesh) SetStaticColor(c math.Vec3) { m.staticColor = c }

// SetTexture sets the 2D texture reference (0 disables).
func (m *Mesh) SetTexture(id uint32) { m.texture.Set(id) }

// SetNormalTexture sets the normal-map reference for bump mapping.
func (m *Mesh) SetNormalTexture(id uint32) { m.normalMap.Set(id) }

// SetDisplacementTexture sets the displacement-map reference.
func (m *Mesh) SetDisplacementTexture(id uint32) { m.displacementMap.Set(id) }

// ToggleBoundingBox enables the wireframe bounding-box overlay.
func (m *Mesh) ToggleBoundingBox(enable bool) { m.showBoundingBox = enable }

// ToggleNormals enables the normal-visualization overlay.
func (m *Mesh) ToggleNormals(enable bool) { m.showNormals = enable }

// ToggleDiffuse enables diffuse texturing in bump-mapping mode.
func (m *Mesh) ToggleDiffuse(enable bool) { m.useDiffuse = enable }

// ToggleNormalMapping enables normal-mapping in bump-mapping mode.
func (m *Mesh) ToggleNormalMapping(enable bool) { m.useNormalMap = enable }

// ToggleDisplacementMapping enables displacement in bump-mapping mode.
func (m *Mesh) ToggleDisplacementMapping(enable bool) { m.useDisplacement = enable }

// SetGeometry replaces the vertex, color and triangle arrays. Any
// existing GPU buffers are released first: CPU data may never be
// swapped underneath live buffers. Pass nil for colors when the mesh
// has none.
func (m *Mesh) SetGeometry(vertices, colors []math.Vec3, triangles []Triangle) {
	m.ReleaseGPUResources()
	m.vertices = vertices
	m.colors = colors
	m.triangles = triangles
	m.normals = nil
	m.texCoords = nil
	m.tangents = nil
}

// RecomputeNormals computes per-vertex normals by area-weighted face
// normal accumulation: every triangle adds its unnormalized cross
// product (length proportional to area) to its three corners, then each
// sum is normalized.
func (m *Mesh) RecomputeNormals() {
	m.normals = make([]math.Vec3, len(m.vertices))
	for _, tri := range m.triangles {
		v0, v1, v2 := m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		m.normals[tri[0]] = m.normals[tri[0]].Add(n)
		m.normals[tri[1]] = m.normals[tri[1]].Add(n)
		m.normals[tri[2]] = m.normals[tri[2]].Add(n)
	}
	for i := range m.normals {
		m.normals[i] = m.normals[i].Normalize()
	}
}

// RecomputeBounds recalculates the bounding box from all vertices.
func (m *Mesh) RecomputeBounds() {
	m.resetBounds()
	for _, v := range m.vertices {
		m.bbMin = m.bbMin.Min(v)
		m.bbMax = m.bbMax.Max(v)
	}
	m.finalizeBounds()
}

func (m *Mesh) finalizeBounds() {
	m.bbMid = m.bbMin.Add(m.bbMax).Scale(0.5)
	m.bbSize = m.bbMax.Sub(m.bbMin)
}

// computeTexCoordsSphere derives texture coordinates by equirectangular
// projection about the bounding-box center.
func (m *Mesh) computeTexCoordsSphere() {
	m.texCoords = m.texCoords[:0]
	for _, v := range m.vertices {
		d := v.Sub(m.bbMid)
		u := float32(gomath.Atan2(float64(d.X), float64(d.Z)))/(2*gomath.Pi) + 0.5
		t := float32(gomath.Asin(float64(d.Y)/float64(d.Length()))) / gomath.Pi
		m.texCoords = append(m.texCoords, math.Vec2{X: u, Y: t})
	}
}

// TranslateToCenter moves the mesh so its bounding-box center lands on
// target. GPU buffers are rebuilt if they exist.
func (m *Mesh) TranslateToCenter(target math.Vec3) {
	trans := target.Sub(m.bbMid)
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].Add(trans)
	}
	m.bbMin = m.bbMin.Add(trans)
	m.bbMax = m.bbMax.Add(trans)
	m.bbMid = m.bbMid.Add(trans)
	m.refreshGPU()
}

// ScaleToLength uniformly scales the mesh so the largest bounding-box
// axis equals newLength. GPU buffers are rebuilt if they exist.
func (m *Mesh) ScaleToLength(newLength float32) {
	length := m.bbSize.MaxComponent()
	if length == 0 {
		return
	}
	scale := newLength / length
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].Scale(scale)
	}
	m.bbMin = m.bbMin.Scale(scale)
	m.bbMax = m.bbMax.Scale(scale)
	m.bbMid = m.bbMid.Scale(scale)
	m.bbSize = m.bbSize.Scale(scale)
	m.refreshGPU()
}

// refreshGPU rebuilds GPU buffers after a CPU-side change, but only if
// they had been built; a mesh that was never uploaded stays CPU-only.
func (m *Mesh) refreshGPU() {
	if !m.vao.Valid() {
		return
	}
	m.ReleaseGPUResources()
	m.BuildGPUResources()
}

// Adopt transfers all CPU data and GPU resources from other into m,
// leaving other empty. Any resources previously owned by m are
// released. This is the only sanctioned way to move a mesh; copying the
// struct would duplicate GPU handle ownership.
func (m *Mesh) Adopt(other *Mesh) {
	m.Clear()

	m.vertices, other.vertices = other.vertices, nil
	m.normals, other.normals = other.normals, nil
	m.triangles, other.triangles = other.triangles, nil
	m.colors, other.colors = other.colors, nil
	m.texCoords, other.texCoords = other.texCoords, nil
	m.tangents, other.tangents = other.tangents, nil

	m.staticColor = other.staticColor
	m.mode = other.mode
	m.showBoundingBox = other.showBoundingBox
	m.showNormals = other.showNormals
	m.useDiffuse = other.useDiffuse
	m.useNormalMap = other.useNormalMap
	m.useDisplacement = other.useDisplacement
	m.bbMin, m.bbMax, m.bbMid, m.bbSize = other.bbMin, other.bbMax, other.bbMid, other.bbSize

	m.vao.MoveFrom(&other.vao)
	m.vboTriangles.MoveFrom(&other.vboTriangles)
	m.vboVertices.MoveFrom(&other.vboVertices)
	m.vboNormals.MoveFrom(&other.vboNormals)
	m.vboColors.MoveFrom(&other.vboColors)
	m.vboTexCoords.MoveFrom(&other.vboTexCoords)
	m.vboTangents.MoveFrom(&other.vboTangents)
	m.boxVAO.MoveFrom(&other.boxVAO)
	m.boxVBO.MoveFrom(&other.boxVBO)
	m.boxEBO.MoveFrom(&other.boxEBO)
	m.normalVAO.MoveFrom(&other.normalVAO)
	m.normalVBO.MoveFrom(&other.normalVBO)
	m.texture.MoveFrom(&other.texture)
	m.normalMap.MoveFrom(&other.normalMap)
	m.displacementMap.MoveFrom(&other.displacementMap)

	other.Clear()
}
