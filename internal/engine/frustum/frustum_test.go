package frustum

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/skyfield/pkg/math"
)

// viewer setup mirroring the scene defaults: camera away from the
// origin looking back at it.
func testMatrices() (projection, view math.Mat4) {
	projection = math.Perspective(65*gomath.Pi/180, 16.0/9.0, 0.5, 100)
	eye := math.Vec3{X: -12, Y: 32, Z: 32}
	view = math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	return projection, view
}

func TestLookAtTargetIsVisible(t *testing.T) {
	projection, view := testMatrices()
	f := FromMatrices(projection, view)

	// The camera looks straight at the origin
	if !f.ContainsCenter(math.Vec3{}) {
		t.Error("look-at target should be classified visible")
	}
}

func TestPointFarBehindCameraIsCulled(t *testing.T) {
	projection, view := testMatrices()
	f := FromMatrices(projection, view)

	// Walk from the eye away from the view direction, far past the
	// far-plane distance.
	eye := math.Vec3{X: -12, Y: 32, Z: 32}
	dir := math.Vec3{}.Sub(eye).Normalize()
	behind := eye.Sub(dir.Scale(500))

	if f.ContainsCenter(behind) {
		t.Error("point far behind the camera should be culled")
	}
}

func TestPlanesAreNormalized(t *testing.T) {
	projection, view := testMatrices()
	f := FromMatrices(projection, view)

	for i, p := range f.Planes {
		l := p.N.Length()
		if gomath.Abs(float64(l-1)) > 1e-5 {
			t.Errorf("plane %d normal should be unit length, got %f", i, l)
		}
	}
}

func TestIdentityModelViewDoesNotPanic(t *testing.T) {
	// Degenerate but legal input: extraction must not divide by zero.
	f := FromMatrices(math.Identity(), math.Identity())
	_ = f.ContainsCenter(math.Vec3{Z: -1})
}
