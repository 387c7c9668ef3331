package mesh

import (
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/skyfield/pkg/math"
)

func writeOBJ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.obj")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJ(t *testing.T) {
	path := writeOBJ(t, `# simple quad
v 0 0 0
v 2 0 0
v 2 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`)

	m := New()
	if err := m.LoadOBJ(path); err != nil {
		t.Fatal(err)
	}

	if len(m.Vertices()) != 4 {
		t.Fatalf("vertices = %d, want 4", len(m.Vertices()))
	}
	if len(m.Triangles()) != 2 {
		t.Fatalf("triangles = %d, want 2", len(m.Triangles()))
	}
	if len(m.Normals()) != 4 {
		t.Fatalf("normals = %d, want 4 (recomputed)", len(m.Normals()))
	}
	if len(m.TexCoords()) != 4 {
		t.Fatalf("texcoords = %d, want 4", len(m.TexCoords()))
	}
	if !vecNear(m.BoundsMid(), math.Vec3{X: 1, Y: 0.5}) {
		t.Fatalf("mid = %+v", m.BoundsMid())
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	// -1 refers to the most recently declared vertex.
	path := writeOBJ(t, `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)

	m := New()
	if err := m.LoadOBJ(path); err != nil {
		t.Fatal(err)
	}
	if len(m.Triangles()) != 1 {
		t.Fatalf("triangles = %d, want 1", len(m.Triangles()))
	}
	if got := m.Triangles()[0]; got != (Triangle{0, 1, 2}) {
		t.Fatalf("triangle = %v, want {0 1 2}", got)
	}
}

func TestLoadOBJDropsNonTriangularFaces(t *testing.T) {
	path := writeOBJ(t, `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
f 1 2 3
`)

	m := New()
	if err := m.LoadOBJ(path); err != nil {
		t.Fatal(err)
	}
	if len(m.Triangles()) != 1 {
		t.Fatalf("triangles = %d, want 1 (quad dropped)", len(m.Triangles()))
	}
}

func TestLoadOBJDropsSlashIndexedFaces(t *testing.T) {
	// Slash-separated index triples are not supported; the face is
	// dropped like any malformed record and loading continues, so the
	// plain face after it still lands and the bounds get finalized.
	path := writeOBJ(t, `v 0 0 0
v 1 0 0
v 0 1 0
f 1/1/1 2/2/2 3/3/3
f 1 2 3
`)

	m := New()
	if err := m.LoadOBJ(path); err != nil {
		t.Fatal(err)
	}
	if len(m.Triangles()) != 1 {
		t.Fatalf("triangles = %d, want 1 (slash face dropped)", len(m.Triangles()))
	}
	if len(m.Normals()) != 3 || len(m.TexCoords()) != 3 {
		t.Fatalf("normals = %d texcoords = %d, want 3 each",
			len(m.Normals()), len(m.TexCoords()))
	}
	if !vecNear(m.BoundsMid(), math.Vec3{X: 0.5, Y: 0.5}) {
		t.Fatalf("mid = %+v, bounds were not finalized", m.BoundsMid())
	}
}

func TestLoadOBJKeepsSuppliedNormals(t *testing.T) {
	path := writeOBJ(t, `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 -1
vn 0 0 -1
vn 0 0 -1
f 1 2 3
`)

	m := New()
	if err := m.LoadOBJ(path); err != nil {
		t.Fatal(err)
	}
	// One normal per vertex was supplied, so none are recomputed even
	// though they point against the face winding.
	for i, n := range m.Normals() {
		if !vecNear(n, math.Vec3{Z: -1}) {
			t.Fatalf("normal %d = %+v, want file-supplied {0 0 -1}", i, n)
		}
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	m := New()
	m.SetGeometry([]math.Vec3{{X: 1}}, nil, nil)

	err := m.LoadOBJ(filepath.Join(t.TempDir(), "nonexistent.obj"))
	if err == nil {
		t.Fatal("want error for missing file")
	}
	if len(m.Vertices()) != 0 {
		t.Fatal("stale geometry survived a failed load")
	}
}

func TestLoadOBJNormalized(t *testing.T) {
	path := writeOBJ(t, `v 10 10 10
v 14 10 10
v 14 12 10
v 10 12 10
f 1 2 3
f 1 3 4
`)

	m := New()
	if err := m.LoadOBJNormalized(path, math.Vec3{}, 10); err != nil {
		t.Fatal(err)
	}

	if !vecNear(m.BoundsMid(), math.Vec3{}) {
		t.Fatalf("mid = %+v, want origin", m.BoundsMid())
	}
	if got := m.BoundsSize().MaxComponent(); gomath.Abs(float64(got-10)) > 1e-4 {
		t.Fatalf("max extent = %v, want 10", got)
	}

	target := math.Vec3{X: 3, Y: -2, Z: 1}
	if err := m.LoadOBJNormalized(path, target, 4); err != nil {
		t.Fatal(err)
	}
	if !vecNear(m.BoundsMid(), target) {
		t.Fatalf("mid = %+v, want %+v", m.BoundsMid(), target)
	}
	if got := m.BoundsSize().MaxComponent(); gomath.Abs(float64(got-4)) > 1e-4 {
		t.Fatalf("max extent = %v, want 4", got)
	}
}

func TestSphericalTexCoordsRange(t *testing.T) {
	m := New()
	m.GenerateSphere(6, 12, 1)
	m.computeTexCoordsSphere()

	for i, tc := range m.TexCoords() {
		if tc.X < 0 || tc.X > 1 {
			t.Fatalf("texcoord %d u = %v out of [0,1]", i, tc.X)
		}
		if tc.Y < -0.5 || tc.Y > 0.5 {
			t.Fatalf("texcoord %d v = %v out of [-0.5,0.5]", i, tc.Y)
		}
	}
}
