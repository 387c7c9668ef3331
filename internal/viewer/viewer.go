// Package viewer implements the interactive main loop: window and
// context setup, input handling and per-frame scene rendering.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skyfield/internal/config"
	"github.com/Faultbox/skyfield/internal/engine/input"
	"github.com/Faultbox/skyfield/internal/engine/mesh"
	"github.com/Faultbox/skyfield/internal/engine/scene"
	"github.com/Faultbox/skyfield/internal/engine/window"
	"github.com/Faultbox/skyfield/internal/logger"
)

const cameraSpeed = 20 // units per second

// Viewer owns the window, the scene and the input handler.
type Viewer struct {
	cfg     *config.Config
	running bool

	window *window.Window
	scene  *scene.Scene
	input  *input.Input

	// UI toggle states mirrored here so keys flip them.
	dragging      bool
	lightMoves    bool
	boundingBoxes bool
	normals       bool
	diffuse       bool
	normalMapping bool
	displacement  bool
	gridSize      int
}

// New creates the window, initializes OpenGL and builds the scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{cfg: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Skyfield",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	v.scene, err = scene.New(cfg)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	width, height := v.window.GetSize()
	v.scene.Resize(width, height)

	v.input = input.New()
	v.gridSize = cfg.Scene.GridSize
	return v, nil
}

func (v *Viewer) toggleLight() {
	v.lightMoves = !v.lightMoves
	v.scene.TriggerLightMovement(v.lightMoves)
}

func (v *Viewer) toggleBoundingBoxes() {
	v.boundingBoxes = !v.boundingBoxes
	v.scene.ToggleBoundingBoxes(v.boundingBoxes)
}

func (v *Viewer) toggleNormals() {
	v.normals = !v.normals
	v.scene.ToggleNormals(v.normals)
}

func (v *Viewer) toggleDiffuse() {
	v.diffuse = !v.diffuse
	v.scene.ToggleDiffuse(v.diffuse)
}

func (v *Viewer) toggleNormalMapping() {
	v.normalMapping = !v.normalMapping
	v.scene.ToggleNormalMapping(v.normalMapping)
}

func (v *Viewer) toggleDisplacement() {
	v.displacement = !v.displacement
	v.scene.ToggleDisplacement(v.displacement)
}

// Run executes the main loop until the window is closed.
func (v *Viewer) Run() error {
	v.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var lastStats scene.FrameStats

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.moveCamera(dt)

		lastStats = v.scene.DrawFrame(dt)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("Skyfield - %d fps, %d triangles, %d culled",
				frameCount, lastStats.Triangles, lastStats.Culled))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.scene.Resize(event.Width, event.Height)

		case input.EventKeyDown:
			v.handleKey(event.Key)

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				v.dragging = true
			}

		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}

		case input.EventMouseMove:
			if v.dragging {
				v.scene.Camera.Rotate(float32(event.RelX)*0.5, float32(-event.RelY)*0.5)
			}

		case input.EventMouseWheel:
			v.scene.Camera.Move(0, 0, float32(event.Scroll))
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_T:
		v.scene.RegenerateTerrain()
	case sdl.SCANCODE_L:
		v.toggleLight()
	case sdl.SCANCODE_B:
		v.toggleBoundingBoxes()
	case sdl.SCANCODE_N:
		v.toggleNormals()
	case sdl.SCANCODE_F1:
		v.scene.SetColoringMode(mesh.StaticColor)
	case sdl.SCANCODE_F2:
		v.scene.SetColoringMode(mesh.ColorArray)
	case sdl.SCANCODE_F3:
		v.scene.SetColoringMode(mesh.Texture)
	case sdl.SCANCODE_F5:
		v.toggleDiffuse()
	case sdl.SCANCODE_F6:
		v.toggleNormalMapping()
	case sdl.SCANCODE_F7:
		v.toggleDisplacement()
	case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3,
		sdl.SCANCODE_4, sdl.SCANCODE_5:
		index := int(key - sdl.SCANCODE_1)
		if index < v.scene.ShaderCount() {
			v.scene.UseShader(index)
		}
	case sdl.SCANCODE_KP_PLUS:
		v.gridSize++
		v.scene.SetGridSize(v.gridSize)
	case sdl.SCANCODE_KP_MINUS:
		if v.gridSize > 0 {
			v.gridSize--
		}
		v.scene.SetGridSize(v.gridSize)
	}
}

// moveCamera applies held movement keys every frame.
func (v *Viewer) moveCamera(dt float32) {
	step := cameraSpeed * dt
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		v.scene.Camera.Move(0, 0, step)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		v.scene.Camera.Move(0, 0, -step)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		v.scene.Camera.Move(-step, 0, 0)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		v.scene.Camera.Move(step, 0, 0)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_Q) {
		v.scene.Camera.Move(0, step, 0)
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_E) {
		v.scene.Camera.Move(0, -step, 0)
	}
}

// Close releases the scene and destroys the window.
func (v *Viewer) Close() {
	if v.scene != nil {
		v.scene.Release()
	}
	if v.window != nil {
		v.window.Close()
	}
}
