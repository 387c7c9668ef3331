package mesh

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/skyfield/internal/engine/frustum"
	"github.com/Faultbox/skyfield/internal/engine/render"
	"github.com/Faultbox/skyfield/pkg/math"
)

// Visible reports whether the mesh's bounding-box center lies inside
// the view frustum derived from the current projection and model-view
// matrices. The test uses only the center point, so large meshes whose
// center is off screen are culled even when their edges would still be
// visible.
func (m *Mesh) Visible(state *render.State) bool {
	f := frustum.FromMatrices(state.Projection(), state.ModelView())
	return f.ContainsCenter(m.bbMid)
}

// Draw renders the mesh with the active program, preceded by the
// bounding-box and normal overlays when enabled. Returns the number of
// triangles issued: 0 when the mesh was culled or its GPU resources
// were never built.
func (m *Mesh) Draw(state *render.State) int {
	if !m.Visible(state) {
		return 0
	}
	if !m.vao.Valid() {
		return 0
	}

	if m.showBoundingBox || m.showNormals {
		m.drawOverlays(state)
	}

	state.UploadModelView()
	state.UploadNormalMatrix()

	gl.BindVertexArray(m.vao.ID())
	m.applyColoring(state)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(3*len(m.triangles)), gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)

	return len(m.triangles)
}

// drawOverlays renders the debug geometry with the overlay program,
// restoring the caller's program before returning even if a draw call
// panics.
func (m *Mesh) drawOverlays(state *render.State) {
	former := state.CurrentProgram()
	defer state.UseProgram(former)

	state.UseDebugProgram()
	if m.showBoundingBox && m.boxVAO.Valid() {
		m.drawBoundingBox(state)
	}
	if m.showNormals && m.normalVAO.Valid() {
		m.drawNormals(state)
	}
}

// drawBoundingBox draws the unit wireframe cube translated to the
// bounding-box center and scaled to its extents.
func (m *Mesh) drawBoundingBox(state *render.State) {
	defer state.PushModelView()()
	state.ApplyModelView(math.Translate(m.bbMid.X, m.bbMid.Y, m.bbMid.Z))
	state.ApplyModelView(math.Scale(m.bbSize.X, m.bbSize.Y, m.bbSize.Z))
	state.UploadModelView()

	gl.BindVertexArray(m.boxVAO.ID())
	gl.VertexAttrib3f(render.ColorLocation, 1, 1, 1)
	gl.DrawElementsWithOffset(gl.LINES, 24, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (m *Mesh) drawNormals(state *render.State) {
	state.UploadModelView()
	gl.BindVertexArray(m.normalVAO.ID())
	gl.VertexAttrib3f(render.ColorLocation, 1, 1, 1)
	gl.DrawArrays(gl.LINES, 0, int32(2*len(m.vertices)))
	gl.BindVertexArray(0)
}

// applyColoring configures the color source for the primary draw,
// downgrading gracefully when the requested mode's resources are
// missing.
func (m *Mesh) applyColoring(state *render.State) {
	u := state.Uniforms()
	switch resolveColoring(m.mode, m.texture.Valid(), m.vboColors.Valid()) {
	case Texture:
		gl.Uniform1i(u.UseTexture, 1)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, m.texture.ID())
		gl.Uniform1i(u.Texture, 0)
	case ColorArray:
		gl.Uniform1i(u.UseTexture, 0)
		gl.EnableVertexAttribArray(render.ColorLocation)
	case BumpMapping:
		gl.Uniform1i(u.UseTexture, 0)
		gl.DisableVertexAttribArray(render.ColorLocation)
		gl.VertexAttrib3f(render.ColorLocation, m.staticColor.X, m.staticColor.Y, m.staticColor.Z)
		m.bindBumpTextures(state)
	default:
		gl.Uniform1i(u.UseTexture, 0)
		gl.DisableVertexAttribArray(render.ColorLocation)
		gl.VertexAttrib3f(render.ColorLocation, m.staticColor.X, m.staticColor.Y, m.staticColor.Z)
	}
}

// bindBumpTextures binds the diffuse, normal and displacement maps to
// their fixed units and pushes the per-mesh feature toggles. The
// toggles live on the bump program itself, so they are resolved here
// rather than cached in the shared uniform set.
func (m *Mesh) bindBumpTextures(state *render.State) {
	program := state.CurrentProgram()

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, m.texture.ID())
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("diffuseMap\x00")), 0)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, m.normalMap.ID())
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("normalMap\x00")), 1)

	gl.ActiveTexture(gl.TEXTURE3)
	gl.BindTexture(gl.TEXTURE_2D, m.displacementMap.ID())
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("displacementMap\x00")), 3)

	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("useDiffuse\x00")), boolToInt(m.useDiffuse))
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("useNormalMapping\x00")), boolToInt(m.useNormalMap))
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("useDisplacement\x00")), boolToInt(m.useDisplacement))
}

// resolveColoring maps the requested mode to the one that can actually
// be served: texture mode needs a bound texture, array mode a color
// buffer, and each falls back down the chain when its resource is
// missing.
func resolveColoring(requested ColoringMode, hasTexture, hasColors bool) ColoringMode {
	switch requested {
	case BumpMapping:
		return BumpMapping
	case Texture:
		if hasTexture {
			return Texture
		}
	case ColorArray:
		if hasColors {
			return ColorArray
		}
		return StaticColor
	default:
		return StaticColor
	}
	// Texture fell through: try the color array next.
	if hasColors {
		return ColorArray
	}
	return StaticColor
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
