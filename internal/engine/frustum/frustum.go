// Package frustum implements view-frustum culling.
//
// The six clip planes are extracted from the combined projection and
// model-view matrix with the Gribb/Hartmann row combinations. Visibility
// is decided from the bounding-box center only, not the full extents,
// so boxes straddling a plane can be culled while partially visible.
// This matches the behavior the renderer has always had; callers that
// need exact results must not rely on border cases.
package frustum

import (
	"github.com/Faultbox/skyfield/pkg/math"
)

// Plane is a clip plane in the form n·x - d = 0.
type Plane struct {
	N math.Vec3
	D float32
}

// Frustum holds the six clip planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// FromMatrices derives the frustum from the current projection and
// model-view matrices. Both are column-major.
func FromMatrices(projection, modelView math.Mat4) Frustum {
	vp := projection.Mul(modelView)

	var f Frustum
	// left
	f.Planes[0] = Plane{math.Vec3{X: vp[3] + vp[0], Y: vp[7] + vp[4], Z: vp[11] + vp[8]}, vp[15] + vp[12]}
	// right
	f.Planes[1] = Plane{math.Vec3{X: vp[3] - vp[0], Y: vp[7] - vp[4], Z: vp[11] - vp[8]}, vp[15] - vp[12]}
	// bottom
	f.Planes[2] = Plane{math.Vec3{X: vp[3] + vp[1], Y: vp[7] + vp[5], Z: vp[11] + vp[9]}, vp[15] + vp[13]}
	// top
	f.Planes[3] = Plane{math.Vec3{X: vp[3] - vp[1], Y: vp[7] - vp[5], Z: vp[11] - vp[9]}, vp[15] - vp[13]}
	// near
	f.Planes[4] = Plane{math.Vec3{X: vp[3] + vp[2], Y: vp[7] + vp[6], Z: vp[11] + vp[10]}, vp[15] + vp[14]}
	// far
	f.Planes[5] = Plane{math.Vec3{X: vp[3] - vp[2], Y: vp[7] - vp[6], Z: vp[11] - vp[10]}, vp[15] - vp[14]}

	for i := range f.Planes {
		mag := f.Planes[i].N.Length()
		if mag == 0 {
			continue
		}
		f.Planes[i].N = f.Planes[i].N.Scale(1 / mag)
		f.Planes[i].D /= mag
	}

	return f
}

// ContainsCenter reports whether the point is classified visible.
// A point is outside as soon as n·p - d exceeds zero for any plane.
func (f *Frustum) ContainsCenter(p math.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].N.Dot(p)-f.Planes[i].D > 0 {
			return false
		}
	}
	return true
}
