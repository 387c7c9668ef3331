package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/engine/glres"
	"github.com/Faultbox/skyfield/internal/engine/render"
	"github.com/Faultbox/skyfield/internal/logger"
	"github.com/Faultbox/skyfield/pkg/math"
)

const (
	vec3Stride = 3 * 4
	vec2Stride = 2 * 4
)

// BuildGPUResources uploads the CPU-side arrays into GPU buffers and
// records the vertex layout in a VAO. Optional attributes (normals,
// colors, texture coordinates, tangents) are uploaded only when their
// array length matches the vertex count. The bounding-box wireframe and
// normal-line buffers are built alongside. A mesh with no vertices gets
// no resources; failed buffer allocations leave the corresponding
// handle zero and the attribute disabled.
func (m *Mesh) BuildGPUResources() {
	m.ReleaseGPUResources()
	if len(m.vertices) == 0 {
		return
	}

	m.vboTriangles.Set(createBuffer(gl.ELEMENT_ARRAY_BUFFER, len(m.triangles)*3*4, gl.Ptr(m.triangles)))
	m.vboVertices.Set(createBuffer(gl.ARRAY_BUFFER, len(m.vertices)*vec3Stride, gl.Ptr(m.vertices)))
	if len(m.normals) == len(m.vertices) {
		m.vboNormals.Set(createBuffer(gl.ARRAY_BUFFER, len(m.normals)*vec3Stride, gl.Ptr(m.normals)))
	}
	if len(m.colors) == len(m.vertices) {
		m.vboColors.Set(createBuffer(gl.ARRAY_BUFFER, len(m.colors)*vec3Stride, gl.Ptr(m.colors)))
	}
	if len(m.texCoords) == len(m.vertices) {
		m.vboTexCoords.Set(createBuffer(gl.ARRAY_BUFFER, len(m.texCoords)*vec2Stride, gl.Ptr(m.texCoords)))
	}
	if len(m.tangents) == len(m.vertices) {
		m.vboTangents.Set(createBuffer(gl.ARRAY_BUFFER, len(m.tangents)*vec3Stride, gl.Ptr(m.tangents)))
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	m.vao.Set(vao)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.vboTriangles.ID())
	bindAttribute(&m.vboVertices, render.PositionLocation, 3)
	bindAttribute(&m.vboNormals, render.NormalLocation, 3)
	bindAttribute(&m.vboColors, render.ColorLocation, 3)
	bindAttribute(&m.vboTexCoords, render.TexCoordLocation, 2)
	bindAttribute(&m.vboTangents, render.TangentLocation, 3)
	gl.BindVertexArray(0)

	m.buildBoxResources()
	m.buildNormalResources()
}

func bindAttribute(h *glres.Handle, location uint32, components int32) {
	if !h.Valid() {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, h.ID())
	gl.VertexAttribPointerWithOffset(location, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
}

// buildBoxResources uploads a unit wireframe cube. It is translated to
// the bounding-box center and scaled to its extents at draw time, so it
// never needs rebuilding when only the box moves.
func (m *Mesh) buildBoxResources() {
	corners := [8]math.Vec3{
		{X: -0.5, Y: -0.5, Z: -0.5},
		{X: 0.5, Y: -0.5, Z: -0.5},
		{X: 0.5, Y: 0.5, Z: -0.5},
		{X: -0.5, Y: 0.5, Z: -0.5},
		{X: -0.5, Y: -0.5, Z: 0.5},
		{X: 0.5, Y: -0.5, Z: 0.5},
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: -0.5, Y: 0.5, Z: 0.5},
	}
	edges := [24]uint32{
		0, 1, 1, 2, 2, 3, 3, 0,
		4, 5, 5, 6, 6, 7, 7, 4,
		0, 4, 1, 5, 2, 6, 3, 7,
	}

	m.boxVBO.Set(createBuffer(gl.ARRAY_BUFFER, len(corners)*vec3Stride, gl.Ptr(corners[:])))
	m.boxEBO.Set(createBuffer(gl.ELEMENT_ARRAY_BUFFER, len(edges)*4, gl.Ptr(edges[:])))

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	m.boxVAO.Set(vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.boxEBO.ID())
	bindAttribute(&m.boxVBO, render.PositionLocation, 3)
	gl.BindVertexArray(0)
}

// buildNormalResources uploads one line segment per vertex, from the
// vertex to the vertex plus a tenth of its normal.
func (m *Mesh) buildNormalResources() {
	if len(m.normals) != len(m.vertices) {
		return
	}
	lines := make([]math.Vec3, 0, 2*len(m.vertices))
	for i, v := range m.vertices {
		lines = append(lines, v, v.Add(m.normals[i].Scale(0.1)))
	}

	m.normalVBO.Set(createBuffer(gl.ARRAY_BUFFER, len(lines)*vec3Stride, gl.Ptr(lines)))

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	m.normalVAO.Set(vao)
	gl.BindVertexArray(vao)
	bindAttribute(&m.normalVBO, render.PositionLocation, 3)
	gl.BindVertexArray(0)
}

// ReleaseGPUResources deletes every GPU buffer and VAO the mesh owns.
// CPU data and texture references are untouched. Safe to call on a mesh
// that has none; safe to call twice.
func (m *Mesh) ReleaseGPUResources() {
	deleteVertexArray(&m.vao)
	deleteVertexArray(&m.boxVAO)
	deleteVertexArray(&m.normalVAO)
	deleteBuffer(&m.vboTriangles)
	deleteBuffer(&m.vboVertices)
	deleteBuffer(&m.vboNormals)
	deleteBuffer(&m.vboColors)
	deleteBuffer(&m.vboTexCoords)
	deleteBuffer(&m.vboTangents)
	deleteBuffer(&m.boxVBO)
	deleteBuffer(&m.boxEBO)
	deleteBuffer(&m.normalVBO)
}

func deleteBuffer(h *glres.Handle) {
	if id := h.Take(); id != 0 {
		gl.DeleteBuffers(1, &id)
	}
}

func deleteVertexArray(h *glres.Handle) {
	if id := h.Take(); id != 0 {
		gl.DeleteVertexArrays(1, &id)
	}
}

// createBuffer uploads data into a fresh buffer object and verifies the
// driver accepted the full size. On mismatch the buffer is deleted and
// 0 is returned, so the attribute simply stays disabled instead of
// reading a truncated buffer.
func createBuffer(target uint32, size int, data unsafe.Pointer) uint32 {
	if size == 0 {
		return 0
	}
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	gl.BufferData(target, size, data, gl.STATIC_DRAW)

	var reported int32
	gl.GetBufferParameteriv(target, gl.BUFFER_SIZE, &reported)
	gl.BindBuffer(target, 0)
	if int(reported) != size {
		gl.DeleteBuffers(1, &id)
		logger.Warn("GPU buffer allocation mismatch",
			zap.Int("requested", size),
			zap.Int32("reported", reported))
		return 0
	}
	return id
}

// FlipNormals negates every normal in place, updating the normal buffer
// directly when one exists.
func (m *Mesh) FlipNormals() {
	for i := range m.normals {
		m.normals[i] = m.normals[i].Scale(-1)
	}
	if m.vboNormals.Valid() {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vboNormals.ID())
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.normals)*vec3Stride, gl.Ptr(m.normals))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	if m.normalVAO.Valid() {
		deleteVertexArray(&m.normalVAO)
		deleteBuffer(&m.normalVBO)
		m.buildNormalResources()
	}
}
