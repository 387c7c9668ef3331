// Package gizmo draws the coordinate-system axes at the world origin.
package gizmo

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/skyfield/internal/engine/glres"
	"github.com/Faultbox/skyfield/internal/engine/render"
)

// Axes is three colored lines of length 5 along +X (red), +Y (green)
// and +Z (blue).
type Axes struct {
	vao      glres.Handle
	vboPos   glres.Handle
	vboColor glres.Handle
}

// New uploads the axis geometry.
func New() *Axes {
	positions := []float32{
		0, 0, 0, 5, 0, 0,
		0, 0, 0, 0, 5, 0,
		0, 0, 0, 0, 0, 5,
	}
	colors := []float32{
		1, 0, 0, 1, 0, 0,
		0, 1, 0, 0, 1, 0,
		0, 0, 1, 0, 0, 1,
	}

	a := &Axes{}
	var vao uint32
	var vbos [2]uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(2, &vbos[0])

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbos[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(render.PositionLocation, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(render.PositionLocation)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbos[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(colors)*4, gl.Ptr(colors), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(render.ColorLocation, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(render.ColorLocation)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	a.vao.Set(vao)
	a.vboPos.Set(vbos[0])
	a.vboColor.Set(vbos[1])
	return a
}

// Draw renders the axes with the active program.
func (a *Axes) Draw(state *render.State) {
	if !a.vao.Valid() {
		return
	}
	state.UploadModelView()
	gl.BindVertexArray(a.vao.ID())
	gl.DrawArrays(gl.LINES, 0, 6)
	gl.BindVertexArray(0)
}

// Release deletes the axis geometry.
func (a *Axes) Release() {
	if id := a.vao.Take(); id != 0 {
		gl.DeleteVertexArrays(1, &id)
	}
	if id := a.vboPos.Take(); id != 0 {
		gl.DeleteBuffers(1, &id)
	}
	if id := a.vboColor.Take(); id != 0 {
		gl.DeleteBuffers(1, &id)
	}
}
