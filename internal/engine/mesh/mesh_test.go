package mesh

import (
	gomath "math"
	"os"
	"testing"

	"github.com/Faultbox/skyfield/internal/engine/glres"
	"github.com/Faultbox/skyfield/internal/engine/render"
	"github.com/Faultbox/skyfield/internal/logger"
	"github.com/Faultbox/skyfield/pkg/math"
)

func TestMain(m *testing.M) {
	// Silent logger: no console, no file.
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const eps = 1e-5

func vecNear(a, b math.Vec3) bool {
	return gomath.Abs(float64(a.X-b.X)) < eps &&
		gomath.Abs(float64(a.Y-b.Y)) < eps &&
		gomath.Abs(float64(a.Z-b.Z)) < eps
}

// twoTriangleMesh builds a quad split into two triangles spanning
// [0,2]x[0,1] in the XY plane.
func twoTriangleMesh() *Mesh {
	m := New()
	m.SetGeometry(
		[]math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 2, Y: 0, Z: 0},
			{X: 2, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		nil,
		[]Triangle{{0, 1, 2}, {0, 2, 3}},
	)
	m.RecomputeBounds()
	return m
}

func TestRecomputeNormalsFlatQuad(t *testing.T) {
	m := twoTriangleMesh()
	m.RecomputeNormals()

	want := math.Vec3{Z: 1}
	for i, n := range m.Normals() {
		if !vecNear(n, want) {
			t.Fatalf("normal %d = %+v, want %+v", i, n, want)
		}
	}
}

func TestRecomputeNormalsAreaWeighted(t *testing.T) {
	// Two triangles share vertex 0. The one in the XY plane is 100
	// times larger than the one in the XZ plane, so the shared normal
	// must lean almost entirely toward +Z.
	m := New()
	m.SetGeometry(
		[]math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 10, Y: 0, Z: 0},
			{X: 0, Y: 10, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 0, Z: -1},
		},
		nil,
		[]Triangle{{0, 1, 2}, {0, 3, 4}},
	)
	m.RecomputeNormals()

	n := m.Normals()[0]
	if n.Z < 0.99 {
		t.Fatalf("shared normal %+v not dominated by the larger face", n)
	}
	if n.Y <= 0 {
		t.Fatalf("shared normal %+v lost the smaller face's contribution", n)
	}
}

func TestBoundsFromScratch(t *testing.T) {
	m := twoTriangleMesh()

	if !vecNear(m.BoundsMin(), math.Vec3{}) {
		t.Errorf("min = %+v", m.BoundsMin())
	}
	if !vecNear(m.BoundsMax(), math.Vec3{X: 2, Y: 1}) {
		t.Errorf("max = %+v", m.BoundsMax())
	}
	if !vecNear(m.BoundsMid(), math.Vec3{X: 1, Y: 0.5}) {
		t.Errorf("mid = %+v", m.BoundsMid())
	}
	if !vecNear(m.BoundsSize(), math.Vec3{X: 2, Y: 1}) {
		t.Errorf("size = %+v", m.BoundsSize())
	}
}

func TestTranslateToCenter(t *testing.T) {
	m := twoTriangleMesh()
	target := math.Vec3{X: -4, Y: 3, Z: 7}
	m.TranslateToCenter(target)

	if !vecNear(m.BoundsMid(), target) {
		t.Fatalf("mid = %+v, want %+v", m.BoundsMid(), target)
	}
	// Size must be unchanged by a translation.
	if !vecNear(m.BoundsSize(), math.Vec3{X: 2, Y: 1}) {
		t.Fatalf("size changed: %+v", m.BoundsSize())
	}
}

func TestScaleToLength(t *testing.T) {
	m := twoTriangleMesh()
	m.ScaleToLength(10)

	if got := m.BoundsSize().MaxComponent(); gomath.Abs(float64(got-10)) > eps {
		t.Fatalf("max extent = %v, want 10", got)
	}
	// Uniform scale: the 2:1 aspect is preserved.
	if got := m.BoundsSize().Y; gomath.Abs(float64(got-5)) > eps {
		t.Fatalf("y extent = %v, want 5", got)
	}
}

func TestScaleToLengthDegenerate(t *testing.T) {
	m := New()
	m.SetGeometry([]math.Vec3{{X: 1, Y: 1, Z: 1}}, nil, nil)
	m.RecomputeBounds()
	m.ScaleToLength(10)

	if !vecNear(m.Vertices()[0], math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Fatalf("zero-extent mesh was scaled: %+v", m.Vertices()[0])
	}
}

func TestFlipNormals(t *testing.T) {
	m := twoTriangleMesh()
	m.RecomputeNormals()
	m.FlipNormals()

	want := math.Vec3{Z: -1}
	for i, n := range m.Normals() {
		if !vecNear(n, want) {
			t.Fatalf("normal %d = %+v, want %+v", i, n, want)
		}
	}
}

func TestClearResetsMesh(t *testing.T) {
	m := twoTriangleMesh()
	m.SetColoringMode(Texture)
	m.ToggleBoundingBox(true)
	m.Clear()

	if len(m.Vertices()) != 0 || len(m.Triangles()) != 0 {
		t.Fatal("geometry survived Clear")
	}
	if m.ColoringModeRequested() != StaticColor {
		t.Fatal("coloring mode survived Clear")
	}
	if m.BoundsMin().X < m.BoundsMax().X {
		t.Fatal("bounds not reset to empty")
	}

	// A cleared mesh is reusable.
	m.SetGeometry([]math.Vec3{{X: 1}}, nil, nil)
	m.RecomputeBounds()
	if !vecNear(m.BoundsMid(), math.Vec3{X: 1}) {
		t.Fatalf("reuse after Clear: mid = %+v", m.BoundsMid())
	}
}

func TestGPUResourcesEmptyMeshNoOp(t *testing.T) {
	// Without vertices the build returns before touching the GPU, so
	// the whole resource lifecycle runs without a context.
	m := New()
	m.BuildGPUResources()

	handles := map[string]*glres.Handle{
		"vao":          &m.vao,
		"vboTriangles": &m.vboTriangles,
		"vboVertices":  &m.vboVertices,
		"vboNormals":   &m.vboNormals,
		"vboColors":    &m.vboColors,
		"vboTexCoords": &m.vboTexCoords,
		"vboTangents":  &m.vboTangents,
		"boxVAO":       &m.boxVAO,
		"boxVBO":       &m.boxVBO,
		"boxEBO":       &m.boxEBO,
		"normalVAO":    &m.normalVAO,
		"normalVBO":    &m.normalVBO,
	}
	for name, h := range handles {
		if h.Valid() {
			t.Fatalf("%s acquired a resource for an empty mesh", name)
		}
	}

	m.ReleaseGPUResources()
	for name, h := range handles {
		if h.Valid() {
			t.Fatalf("%s non-zero after release", name)
		}
	}
}

func TestClearTwiceIsIdempotent(t *testing.T) {
	m := twoTriangleMesh()
	m.Clear()
	m.Clear()

	if len(m.Vertices()) != 0 || len(m.Triangles()) != 0 {
		t.Fatal("geometry survived repeated Clear")
	}
	if m.vao.Valid() {
		t.Fatal("vao non-zero after repeated Clear")
	}
	if m.BoundsMin().X < m.BoundsMax().X {
		t.Fatal("bounds not reset to empty")
	}
}

func TestAdoptTransfersEverything(t *testing.T) {
	src := twoTriangleMesh()
	src.RecomputeNormals()
	src.SetColoringMode(ColorArray)
	src.SetStaticColor(math.Vec3{X: 0.3, Y: 0.6, Z: 0.9})

	dst := New()
	dst.Adopt(src)

	if len(dst.Vertices()) != 4 || len(dst.Triangles()) != 2 {
		t.Fatalf("destination got %d vertices, %d triangles",
			len(dst.Vertices()), len(dst.Triangles()))
	}
	if dst.ColoringModeRequested() != ColorArray {
		t.Fatal("coloring mode not carried over")
	}
	if !vecNear(dst.BoundsMid(), math.Vec3{X: 1, Y: 0.5}) {
		t.Fatalf("bounds not carried over: %+v", dst.BoundsMid())
	}
	if len(src.Vertices()) != 0 || len(src.Triangles()) != 0 {
		t.Fatal("source still owns geometry after Adopt")
	}
}

func TestResolveColoring(t *testing.T) {
	tests := []struct {
		name       string
		requested  ColoringMode
		hasTexture bool
		hasColors  bool
		want       ColoringMode
	}{
		{"static stays static", StaticColor, true, true, StaticColor},
		{"texture available", Texture, true, false, Texture},
		{"texture falls back to colors", Texture, false, true, ColorArray},
		{"texture falls back to static", Texture, false, false, StaticColor},
		{"colors available", ColorArray, false, true, ColorArray},
		{"colors fall back to static", ColorArray, false, false, StaticColor},
		{"bump is never downgraded", BumpMapping, false, false, BumpMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveColoring(tt.requested, tt.hasTexture, tt.hasColors)
			if got != tt.want {
				t.Fatalf("resolveColoring(%v, %v, %v) = %v, want %v",
					tt.requested, tt.hasTexture, tt.hasColors, got, tt.want)
			}
		})
	}
}

func TestGenerateSphere(t *testing.T) {
	m := New()
	m.GenerateSphere(8, 16, 2)

	wantVertices := 9 * 17
	if len(m.Vertices()) != wantVertices {
		t.Fatalf("vertices = %d, want %d", len(m.Vertices()), wantVertices)
	}
	if want := 2 * 8 * 16; len(m.Triangles()) != want {
		t.Fatalf("triangles = %d, want %d", len(m.Triangles()), want)
	}
	for i, v := range m.Vertices() {
		if gomath.Abs(float64(v.Length()-2)) > 1e-4 {
			t.Fatalf("vertex %d at radius %v, want 2", i, v.Length())
		}
		if !vecNear(m.Normals()[i], v.Scale(0.5)) {
			t.Fatalf("normal %d not radial", i)
		}
		// Tangent must be orthogonal to the normal.
		if dot := m.Normals()[i].Dot(m.tangents[i]); gomath.Abs(float64(dot)) > 1e-4 {
			t.Fatalf("tangent %d not orthogonal to normal (dot=%v)", i, dot)
		}
	}
	if !vecNear(m.BoundsSize(), math.Vec3{X: 4, Y: 4, Z: 4}) {
		t.Fatalf("bounds size = %+v, want 4x4x4", m.BoundsSize())
	}
}

// newCameraState builds an offline render state with a camera at
// (-12, 32, 32) looking at the origin.
func newCameraState() *render.State {
	state := render.NewOfflineState()
	state.SetProjection(math.Perspective(65*gomath.Pi/180, 16.0/9.0, 0.5, 100))
	state.SetModelView(math.LookAt(
		math.Vec3{X: -12, Y: 32, Z: 32},
		math.Vec3{},
		math.Vec3{Y: 1},
	))
	return state
}

func TestVisibleUsesBoundingBoxCenter(t *testing.T) {
	state := newCameraState()

	m := twoTriangleMesh()
	m.TranslateToCenter(math.Vec3{})
	if !m.Visible(state) {
		t.Fatal("mesh at the look-at target reported invisible")
	}

	// Well behind the camera, beyond the far plane's mirror distance.
	eye := math.Vec3{X: -12, Y: 32, Z: 32}
	dir := eye.Scale(-1).Normalize()
	m.TranslateToCenter(eye.Sub(dir.Scale(500)))
	if m.Visible(state) {
		t.Fatal("mesh far behind the camera reported visible")
	}
}
