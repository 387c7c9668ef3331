// Package scene assembles and renders the viewer's world: the fault
// terrain, a fleet of airplane models, the bump-mapped sphere, the
// light marker, the axis gizmo and the skybox, drawn with a registry
// of switchable shader programs.
package scene

import (
	"fmt"
	gomath "math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/config"
	"github.com/Faultbox/skyfield/internal/engine/camera"
	"github.com/Faultbox/skyfield/internal/engine/gizmo"
	"github.com/Faultbox/skyfield/internal/engine/mesh"
	"github.com/Faultbox/skyfield/internal/engine/render"
	"github.com/Faultbox/skyfield/internal/engine/shader"
	"github.com/Faultbox/skyfield/internal/engine/shader/sources"
	"github.com/Faultbox/skyfield/internal/engine/skybox"
	"github.com/Faultbox/skyfield/internal/engine/terrain"
	"github.com/Faultbox/skyfield/internal/engine/texture"
	"github.com/Faultbox/skyfield/internal/logger"
	"github.com/Faultbox/skyfield/pkg/math"
)

const lightMotionSpeed = 15 // degrees per second

// airplane pairs a mesh with its position on the terrain.
type airplane struct {
	mesh     *mesh.Mesh
	position math.Vec3
}

// Scene owns all world objects and the render state.
type Scene struct {
	cfg    *config.Config
	state  *render.State
	Camera *camera.FreeCamera

	// programs[0] is the unlit constant-color program, programs[1]
	// the Lambert program; CompileShaderFiles appends more. The debug
	// overlays always use programs[0].
	programs       []uint32
	currentProgram uint32
	bumpProgram    uint32

	sky  *skybox.Skybox
	axes *gizmo.Axes

	lightSphere *mesh.Mesh
	model       *mesh.Mesh
	terrainMesh *mesh.Mesh
	bumpSphere  *mesh.Mesh
	airplanes   []airplane

	// Textures are shared between meshes, so the scene owns them.
	modelTexture     uint32
	bumpDiffuse      uint32
	bumpNormal       uint32
	bumpDisplacement uint32

	heights [][]float64
	rng     *rand.Rand

	gridSize   int
	lightMoves bool

	trianglesLastRun int
	culledLastRun    int
}

// New builds the whole scene: terrain, models, textures, shaders.
// Requires a current OpenGL context.
func New(cfg *config.Config) (*Scene, error) {
	s := &Scene{
		cfg:      cfg,
		state:    render.NewState(),
		Camera:   camera.NewFreeCamera(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		gridSize: cfg.Scene.GridSize,
	}

	gl.ClearColor(0, 0, 0, 1)
	gl.Enable(gl.DEPTH_TEST)

	if err := s.loadShaders(); err != nil {
		return nil, err
	}
	s.loadTextures()
	if err := s.loadMeshes(); err != nil {
		return nil, err
	}

	s.axes = gizmo.New()
	s.sky = skybox.New(cfg.Assets.SkyboxDir, ".png")

	s.state.SetLightPos(math.Vec3{X: 0, Y: 10, Z: 20})

	return s, nil
}

func (s *Scene) loadShaders() error {
	constantColor, err := shader.CompileProgram("constant_color",
		sources.SceneVertexShader, sources.ConstantColorFragmentShader)
	if err != nil {
		return fmt.Errorf("constant color shader: %w", err)
	}
	s.programs = append(s.programs, constantColor)
	s.state.SetDebugProgram(constantColor)
	s.currentProgram = constantColor

	lambert, err := shader.CompileProgram("lambert",
		sources.SceneVertexShader, sources.LambertFragmentShader)
	if err != nil {
		return fmt.Errorf("lambert shader: %w", err)
	}
	s.programs = append(s.programs, lambert)

	// The bump program is optional: a build failure pops up the
	// diagnostics dialog and the sphere is simply not drawn.
	s.bumpProgram = shader.LoadProgram("bump",
		sources.BumpVertexShader, sources.BumpFragmentShader)

	return nil
}

func (s *Scene) loadTextures() {
	dir := s.cfg.Assets.TexturesDir
	s.modelTexture = texture.NewTexture2D(filepath.Join(dir, "test_grid.png"), false)
}

func (s *Scene) loadMeshes() error {
	dir := s.cfg.Assets.ModelsDir

	s.lightSphere = mesh.New()
	if err := s.lightSphere.LoadOBJ(filepath.Join(dir, "sphere.obj")); err != nil {
		logger.Warn("light sphere model unavailable", zap.Error(err))
	}
	s.lightSphere.SetStaticColor(math.Vec3{X: 1, Y: 1, Z: 0})
	s.lightSphere.BuildGPUResources()

	s.model = mesh.New()
	if err := s.model.LoadOBJ(filepath.Join(dir, "doppeldecker.obj")); err != nil {
		logger.Warn("display model unavailable", zap.Error(err))
	}
	s.model.SetStaticColor(math.Vec3{Y: 1})
	s.model.SetTexture(s.modelTexture)
	s.model.SetColoringMode(mesh.Texture)
	s.model.BuildGPUResources()

	s.terrainMesh = mesh.New()
	s.buildTerrain()

	s.buildAirplanes()

	s.bumpSphere = mesh.New()
	s.bumpSphere.GenerateSphere(32, 32, 2)
	s.bumpSphere.SetStaticColor(math.Vec3{X: 0.8, Y: 0.8, Z: 0.8})
	s.bumpSphere.SetColoringMode(mesh.BumpMapping)
	texDir := s.cfg.Assets.TexturesDir
	s.bumpDiffuse = texture.NewTexture2D(filepath.Join(texDir, "wall_diffuse.jpg"), true)
	s.bumpNormal = texture.NewTexture2D(filepath.Join(texDir, "wall_normal.jpg"), true)
	s.bumpDisplacement = texture.NewTexture2D(filepath.Join(texDir, "wall_displacement.jpg"), true)
	s.bumpSphere.SetTexture(s.bumpDiffuse)
	s.bumpSphere.SetNormalTexture(s.bumpNormal)
	s.bumpSphere.SetDisplacementTexture(s.bumpDisplacement)
	s.bumpSphere.BuildGPUResources()

	return nil
}

// buildTerrain regenerates the terrain mesh and retains the heightmap
// for object placement.
func (s *Scene) buildTerrain() {
	s.heights = terrain.BuildTerrain(s.terrainMesh,
		s.cfg.Scene.TerrainLength,
		s.cfg.Scene.TerrainWidth,
		s.cfg.Scene.TerrainIterations,
		s.rng)
	s.terrainMesh.BuildGPUResources()
}

// buildAirplanes scatters randomly tinted copies of the display model
// across the terrain surface.
func (s *Scene) buildAirplanes() {
	for i := range s.airplanes {
		s.airplanes[i].mesh.Clear()
	}
	s.airplanes = s.airplanes[:0]

	dir := s.cfg.Assets.ModelsDir
	for i := 0; i < s.cfg.Scene.Airplanes; i++ {
		m := mesh.New()
		if err := m.LoadOBJ(filepath.Join(dir, "doppeldecker.obj")); err != nil {
			logger.Warn("airplane model unavailable", zap.Error(err))
			return
		}
		m.SetStaticColor(math.Vec3{
			X: s.rng.Float32(),
			Y: s.rng.Float32(),
			Z: s.rng.Float32(),
		})
		m.SetTexture(s.modelTexture)
		m.SetColoringMode(mesh.Texture)
		m.BuildGPUResources()

		s.airplanes = append(s.airplanes, airplane{
			mesh:     m,
			position: s.surfacePosition(),
		})
	}
}

// surfacePosition picks a random grid cell and returns a point
// hovering above the terrain there.
func (s *Scene) surfacePosition() math.Vec3 {
	if len(s.heights) == 0 || len(s.heights[0]) == 0 {
		return math.Vec3{Y: 5}
	}
	x := s.rng.Intn(len(s.heights))
	z := s.rng.Intn(len(s.heights[x]))
	return math.Vec3{
		X: float32(x),
		Y: float32(s.heights[x][z]) + 5,
		Z: float32(z),
	}
}

// Resize updates the projection matrix and pushes it into every
// program, then resizes the viewport.
func (s *Scene) Resize(width, height int) {
	if height == 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	fov := s.cfg.Graphics.FOVDegrees * float32(gomath.Pi) / 180
	s.state.SetProjection(math.Perspective(fov,
		aspect, s.cfg.Graphics.NearPlane, s.cfg.Graphics.FarPlane))

	for _, program := range s.programs {
		s.state.UseProgram(program)
		s.state.UploadProjection()
	}
	if s.bumpProgram != 0 {
		s.state.UseProgram(s.bumpProgram)
		s.state.UploadProjection()
	}
	s.state.UseProgram(s.currentProgram)

	gl.Viewport(0, 0, int32(width), int32(height))
}

// FrameStats reports what one frame actually rendered.
type FrameStats struct {
	Triangles int
	Culled    int
}

// DrawFrame renders one frame and returns its draw statistics. dt is
// the seconds elapsed since the previous frame, used for light motion.
func (s *Scene) DrawFrame(dt float32) FrameStats {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	s.state.LoadIdentityModelView()
	s.state.SetModelView(s.Camera.ViewMatrix())

	s.sky.Draw(s.state)

	s.state.UseProgram(s.programs[0])
	s.axes.Draw(s.state)

	if s.lightMoves {
		s.state.RotateLight(lightMotionSpeed * dt * float32(gomath.Pi) / 180)
	}
	s.drawLight()

	var stats FrameStats

	// Bump-mapped sphere, hovering above the origin.
	if s.bumpProgram != 0 {
		s.state.UseProgram(s.bumpProgram)
		s.state.UploadLight()
		func() {
			defer s.state.PushModelView()()
			s.state.ApplyModelView(math.Translate(0, 5, 0))
			s.drawCounted(s.bumpSphere, &stats)
		}()
	}

	s.state.UseProgram(s.currentProgram)
	s.state.UploadLight()

	for i := range s.airplanes {
		a := &s.airplanes[i]
		func() {
			defer s.state.PushModelView()()
			s.state.ApplyModelView(math.Translate(a.position.X, a.position.Y, a.position.Z))
			s.drawCounted(a.mesh, &stats)
		}()
	}

	// A row of display models, each shifted one unit further along X.
	func() {
		defer s.state.PushModelView()()
		for i := 0; i < s.gridSize; i++ {
			s.state.ApplyModelView(math.Translate(1, 0, 0))
			s.drawCounted(s.model, &stats)
		}
	}()

	s.drawCounted(s.terrainMesh, &stats)

	if stats.Triangles != s.trianglesLastRun || stats.Culled != s.culledLastRun {
		s.trianglesLastRun = stats.Triangles
		s.culledLastRun = stats.Culled
		logger.Debug("frame stats changed",
			zap.Int("triangles", stats.Triangles),
			zap.Int("culled", stats.Culled))
	}

	return stats
}

// drawCounted draws a mesh, accumulating either its triangle count or
// a cull into stats.
func (s *Scene) drawCounted(m *mesh.Mesh, stats *FrameStats) {
	if !m.Visible(s.state) {
		stats.Culled++
		return
	}
	stats.Triangles += m.Draw(s.state)
}

// drawLight renders the yellow marker sphere at the light position.
func (s *Scene) drawLight() {
	defer s.state.PushModelView()()
	lp := s.state.LightPos()
	s.state.ApplyModelView(math.Translate(lp.X, lp.Y, lp.Z))
	s.state.ApplyModelView(math.Scale(2, 2, 2))
	s.lightSphere.Draw(s.state)
}

// RegenerateTerrain rebuilds the terrain with a fresh random profile
// and re-scatters the airplanes onto the new surface.
func (s *Scene) RegenerateTerrain() {
	s.terrainMesh.Clear()
	s.buildTerrain()
	s.buildAirplanes()
}

// UseShader switches the scene program to the registry entry at index.
// An index that was never registered is a programming error and fatal,
// matching the registry's append-only contract.
func (s *Scene) UseShader(index int) {
	if index < 0 || index >= len(s.programs) {
		logger.Fatal("tried to use a shader index that has not been loaded",
			zap.Int("index", index),
			zap.Int("registered", len(s.programs)))
	}
	s.currentProgram = s.programs[index]
	s.state.UseProgram(s.currentProgram)
	s.state.UploadProjection()
}

// ShaderCount returns the number of registered scene programs.
func (s *Scene) ShaderCount() int { return len(s.programs) }

// CompileShaderFiles builds a program from shader files on disk and
// appends it to the registry. Returns the new registry index.
func (s *Scene) CompileShaderFiles(vertPath, fragPath string) (int, error) {
	vertSrc, err := os.ReadFile(vertPath)
	if err != nil {
		return 0, fmt.Errorf("read vertex shader: %w", err)
	}
	fragSrc, err := os.ReadFile(fragPath)
	if err != nil {
		return 0, fmt.Errorf("read fragment shader: %w", err)
	}

	name := filepath.Base(vertPath) + "+" + filepath.Base(fragPath)
	program := shader.LoadProgram(name, string(vertSrc), string(fragSrc))
	if program == 0 {
		return 0, fmt.Errorf("shader %s failed to build", name)
	}

	s.programs = append(s.programs, program)
	index := len(s.programs) - 1
	logger.Info("compiled shader", zap.String("name", name), zap.Int("index", index))
	return index, nil
}

// SetGridSize sets how many copies of the display model are drawn.
func (s *Scene) SetGridSize(n int) {
	if n < 0 {
		n = 0
	}
	s.gridSize = n
}

// SetColoringMode applies a coloring mode to the display model and the
// terrain. The bump sphere keeps its dedicated mode.
func (s *Scene) SetColoringMode(mode mesh.ColoringMode) {
	s.model.SetColoringMode(mode)
	s.terrainMesh.SetColoringMode(mode)
}

// ToggleBoundingBoxes shows or hides all bounding-box overlays.
func (s *Scene) ToggleBoundingBoxes(enable bool) {
	s.model.ToggleBoundingBox(enable)
	s.terrainMesh.ToggleBoundingBox(enable)
	s.bumpSphere.ToggleBoundingBox(enable)
	for i := range s.airplanes {
		s.airplanes[i].mesh.ToggleBoundingBox(enable)
	}
}

// ToggleNormals shows or hides all normal overlays.
func (s *Scene) ToggleNormals(enable bool) {
	s.model.ToggleNormals(enable)
	s.terrainMesh.ToggleNormals(enable)
	s.bumpSphere.ToggleNormals(enable)
	for i := range s.airplanes {
		s.airplanes[i].mesh.ToggleNormals(enable)
	}
}

// ToggleDiffuse switches diffuse texturing on the bump sphere.
func (s *Scene) ToggleDiffuse(enable bool) { s.bumpSphere.ToggleDiffuse(enable) }

// ToggleNormalMapping switches normal mapping on the bump sphere.
func (s *Scene) ToggleNormalMapping(enable bool) { s.bumpSphere.ToggleNormalMapping(enable) }

// ToggleDisplacement switches displacement mapping on the bump sphere.
func (s *Scene) ToggleDisplacement(enable bool) { s.bumpSphere.ToggleDisplacementMapping(enable) }

// TriggerLightMovement starts or stops the light's orbit.
func (s *Scene) TriggerLightMovement(move bool) { s.lightMoves = move }

// Release frees every GPU resource the scene owns.
func (s *Scene) Release() {
	s.lightSphere.Clear()
	s.model.Clear()
	s.terrainMesh.Clear()
	s.bumpSphere.Clear()
	for i := range s.airplanes {
		s.airplanes[i].mesh.Clear()
	}
	s.axes.Release()
	s.sky.Release()
	for _, id := range []uint32{s.modelTexture, s.bumpDiffuse, s.bumpNormal, s.bumpDisplacement} {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
	}
	s.modelTexture, s.bumpDiffuse, s.bumpNormal, s.bumpDisplacement = 0, 0, 0, 0
	for _, program := range s.programs {
		gl.DeleteProgram(program)
	}
	s.programs = nil
	if s.bumpProgram != 0 {
		gl.DeleteProgram(s.bumpProgram)
		s.bumpProgram = 0
	}
}
