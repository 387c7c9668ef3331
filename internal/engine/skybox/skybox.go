// Package skybox renders a cube-map background around the scene.
package skybox

import (
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/engine/glres"
	"github.com/Faultbox/skyfield/internal/engine/render"
	"github.com/Faultbox/skyfield/internal/engine/shader"
	"github.com/Faultbox/skyfield/internal/engine/shader/sources"
	"github.com/Faultbox/skyfield/internal/engine/texture"
	"github.com/Faultbox/skyfield/internal/logger"
)

// 36 corner positions of a unit cube, two triangles per face. The
// positions double as cube-map sampling directions.
var cubeVertices = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1,
	1, -1, -1, 1, 1, -1, -1, 1, -1,

	-1, -1, 1, -1, -1, -1, -1, 1, -1,
	-1, 1, -1, -1, 1, 1, -1, -1, 1,

	1, -1, -1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, -1, 1, -1, -1,

	-1, -1, 1, -1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, -1, 1, -1, -1, 1,

	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, 1, -1,

	-1, -1, -1, -1, -1, 1, 1, -1, -1,
	1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// Skybox owns the cube geometry, its shader program and the cube-map
// texture.
type Skybox struct {
	vao     glres.Handle
	vbo     glres.Handle
	cubeMap glres.Handle
	program uint32
	viewLoc int32
	projLoc int32
}

// New builds the skybox geometry, compiles its shader pair and loads
// the six face textures from dir (pos_x, neg_x, pos_y, neg_y, pos_z,
// neg_z with the given extension). A missing texture or broken shader
// leaves the skybox inert: Draw becomes a no-op.
func New(dir, ext string) *Skybox {
	s := &Skybox{}

	s.program = shader.LoadProgram("skybox", sources.SkyboxVertexShader, sources.SkyboxFragmentShader)
	if s.program != 0 {
		s.viewLoc = gl.GetUniformLocation(s.program, gl.Str("view\x00"))
		s.projLoc = gl.GetUniformLocation(s.program, gl.Str("projection\x00"))
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(render.PositionLocation)
	gl.VertexAttribPointerWithOffset(render.PositionLocation, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
	s.vao.Set(vao)
	s.vbo.Set(vbo)

	faces := [6]string{
		filepath.Join(dir, "pos_x"+ext),
		filepath.Join(dir, "neg_x"+ext),
		filepath.Join(dir, "pos_y"+ext),
		filepath.Join(dir, "neg_y"+ext),
		filepath.Join(dir, "pos_z"+ext),
		filepath.Join(dir, "neg_z"+ext),
	}
	s.cubeMap.Set(texture.NewCubeMap(faces))
	if !s.cubeMap.Valid() {
		logger.Warn("skybox textures unavailable", zap.String("dir", dir))
	}

	return s
}

// Draw renders the skybox around the camera. The model-view's
// translation column is zeroed so the box follows the camera, and the
// depth test is relaxed to lequal because the vertex shader pins the
// box to the far plane.
func (s *Skybox) Draw(state *render.State) {
	if s.program == 0 || !s.cubeMap.Valid() || !s.vao.Valid() {
		return
	}

	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)

	state.UseProgram(s.program)

	view := state.ModelView()
	view.SetColumn(3, 0, 0, 0, 1)
	proj := state.Projection()
	gl.UniformMatrix4fv(s.viewLoc, 1, false, view.Ptr())
	gl.UniformMatrix4fv(s.projLoc, 1, false, proj.Ptr())

	gl.BindVertexArray(s.vao.ID())
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, s.cubeMap.ID())
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

// Release deletes the skybox's GPU resources.
func (s *Skybox) Release() {
	if id := s.vao.Take(); id != 0 {
		gl.DeleteVertexArrays(1, &id)
	}
	if id := s.vbo.Take(); id != 0 {
		gl.DeleteBuffers(1, &id)
	}
	if id := s.cubeMap.Take(); id != 0 {
		gl.DeleteTextures(1, &id)
	}
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
}
