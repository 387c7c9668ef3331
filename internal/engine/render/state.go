// Package render holds the per-frame rendering state shared by all draw
// calls: the model-view matrix stack, the projection matrix, the light
// position and the uniform locations of the active shader program.
package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/skyfield/pkg/math"
)

// Fixed vertex attribute slots shared by every shader program.
const (
	PositionLocation = 0
	NormalLocation   = 1
	ColorLocation    = 2
	TexCoordLocation = 3
	TangentLocation  = 4
)

// Uniforms caches the uniform locations of one shader program.
type Uniforms struct {
	ModelView    int32
	Projection   int32
	NormalMatrix int32
	LightPos     int32
	UseTexture   int32
	Texture      int32
}

// State is the per-frame mutable rendering state. It is confined to the
// thread owning the GL context and is never shared across frames in
// flight (there are none: rendering is synchronous).
type State struct {
	stack      []math.Mat4
	projection math.Mat4
	lightPos   math.Vec3

	program      uint32
	debugProgram uint32
	uniforms     Uniforms

	// glAvailable is false in tests, where no GL context exists.
	glAvailable bool
}

// NewState returns a State with an identity model-view and projection.
func NewState() *State {
	return &State{
		stack:       []math.Mat4{math.Identity()},
		projection:  math.Identity(),
		glAvailable: true,
	}
}

// NewOfflineState returns a State that never issues GL calls.
// Used by tests that exercise the matrix-stack discipline.
func NewOfflineState() *State {
	s := NewState()
	s.glAvailable = false
	return s
}

// ModelView returns the top of the model-view stack.
func (s *State) ModelView() math.Mat4 {
	return s.stack[len(s.stack)-1]
}

// LoadIdentityModelView resets the stack to a single identity matrix.
func (s *State) LoadIdentityModelView() {
	s.stack = s.stack[:0]
	s.stack = append(s.stack, math.Identity())
}

// SetModelView replaces the top of the stack.
func (s *State) SetModelView(m math.Mat4) {
	s.stack[len(s.stack)-1] = m
}

// ApplyModelView right-multiplies the top of the stack by m.
// Used for translate/scale/rotate steps during scene traversal.
func (s *State) ApplyModelView(m math.Mat4) {
	top := len(s.stack) - 1
	s.stack[top] = s.stack[top].Mul(m)
}

// PushModelView duplicates the top of the stack and returns the matching
// pop. Callers defer the returned func so the stack is restored on every
// exit path, including early returns from culling:
//
//	defer state.PushModelView()()
func (s *State) PushModelView() func() {
	s.stack = append(s.stack, s.ModelView())
	depth := len(s.stack)
	return func() {
		if len(s.stack) != depth {
			panic("render: unbalanced model-view stack")
		}
		s.stack = s.stack[:depth-1]
	}
}

// StackDepth returns the current model-view stack depth.
func (s *State) StackDepth() int {
	return len(s.stack)
}

// Projection returns the current projection matrix.
func (s *State) Projection() math.Mat4 {
	return s.projection
}

// SetProjection replaces the projection matrix.
func (s *State) SetProjection(m math.Mat4) {
	s.projection = m
}

// NormalMatrix derives the normal matrix from the current model-view.
func (s *State) NormalMatrix() math.Mat3 {
	return s.ModelView().NormalMatrix()
}

// LightPos returns the light position in world space.
func (s *State) LightPos() math.Vec3 {
	return s.lightPos
}

// SetLightPos sets the light position in world space.
func (s *State) SetLightPos(p math.Vec3) {
	s.lightPos = p
}

// RotateLight rotates the light position about the Y axis by angle radians.
func (s *State) RotateLight(angle float32) {
	s.lightPos = s.lightPos.RotateY(angle)
}

// CurrentProgram returns the id of the active shader program.
func (s *State) CurrentProgram() uint32 {
	return s.program
}

// Uniforms returns the cached uniform locations of the active program.
func (s *State) Uniforms() Uniforms {
	return s.uniforms
}

// UseProgram activates the program and re-resolves its uniform
// locations. Locations of uniforms the program does not declare are -1
// and silently ignored by the GL.
func (s *State) UseProgram(program uint32) {
	s.program = program
	if !s.glAvailable || program == 0 {
		return
	}
	gl.UseProgram(program)
	s.uniforms = Uniforms{
		ModelView:    gl.GetUniformLocation(program, gl.Str("modelView\x00")),
		Projection:   gl.GetUniformLocation(program, gl.Str("projection\x00")),
		NormalMatrix: gl.GetUniformLocation(program, gl.Str("normalMatrix\x00")),
		LightPos:     gl.GetUniformLocation(program, gl.Str("lightPos\x00")),
		UseTexture:   gl.GetUniformLocation(program, gl.Str("useTexture\x00")),
		Texture:      gl.GetUniformLocation(program, gl.Str("tex\x00")),
	}
}

// SetDebugProgram registers the fixed program used for overlays
// (bounding boxes, normals, the axis gizmo).
func (s *State) SetDebugProgram(program uint32) {
	s.debugProgram = program
}

// UseDebugProgram switches to the overlay program.
func (s *State) UseDebugProgram() {
	s.UseProgram(s.debugProgram)
}

// UploadModelView sends the current model-view matrix to the active
// program.
func (s *State) UploadModelView() {
	if !s.glAvailable {
		return
	}
	mv := s.ModelView()
	gl.UniformMatrix4fv(s.uniforms.ModelView, 1, false, mv.Ptr())
}

// UploadProjection sends the projection matrix to the active program.
func (s *State) UploadProjection() {
	if !s.glAvailable {
		return
	}
	gl.UniformMatrix4fv(s.uniforms.Projection, 1, false, s.projection.Ptr())
}

// UploadNormalMatrix sends the derived normal matrix to the active
// program.
func (s *State) UploadNormalMatrix() {
	if !s.glAvailable {
		return
	}
	nm := s.NormalMatrix()
	gl.UniformMatrix3fv(s.uniforms.NormalMatrix, 1, false, nm.Ptr())
}

// UploadLight sends the light position, transformed into view space by
// the current model-view matrix, to the active program.
func (s *State) UploadLight() {
	if !s.glAvailable {
		return
	}
	p := s.ModelView().TransformPoint(s.lightPos)
	gl.Uniform3f(s.uniforms.LightPos, p.X, p.Y, p.Z)
}
