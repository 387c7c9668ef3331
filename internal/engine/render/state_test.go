package render

import (
	"testing"

	"github.com/Faultbox/skyfield/pkg/math"
)

func TestPushPopRestoresDepth(t *testing.T) {
	s := NewOfflineState()

	if s.StackDepth() != 1 {
		t.Fatalf("fresh state should have depth 1, got %d", s.StackDepth())
	}

	pop := s.PushModelView()
	if s.StackDepth() != 2 {
		t.Errorf("depth should be 2 after push, got %d", s.StackDepth())
	}
	s.ApplyModelView(math.Translate(1, 2, 3))
	pop()

	if s.StackDepth() != 1 {
		t.Errorf("depth should return to 1 after pop, got %d", s.StackDepth())
	}
	if s.ModelView() != math.Identity() {
		t.Error("pop should discard modifications made after push")
	}
}

func TestScopedPopOnEarlyReturn(t *testing.T) {
	s := NewOfflineState()

	// Simulates a draw that culls and returns early: the deferred pop
	// must still run.
	draw := func() {
		defer s.PushModelView()()
		s.ApplyModelView(math.Translate(5, 0, 0))
		return // culled
	}
	draw()

	if s.StackDepth() != 1 {
		t.Errorf("stack must be balanced after early return, got depth %d", s.StackDepth())
	}
}

func TestUnbalancedPopPanics(t *testing.T) {
	s := NewOfflineState()

	pop1 := s.PushModelView()
	pop2 := s.PushModelView()

	defer func() {
		if recover() == nil {
			t.Error("out-of-order pop should panic")
		}
		pop2()
		pop1()
	}()

	pop1() // wrong order: pop2 is still outstanding
}

func TestApplyModelViewComposes(t *testing.T) {
	s := NewOfflineState()
	s.ApplyModelView(math.Translate(1, 0, 0))
	s.ApplyModelView(math.Scale(2, 2, 2))

	p := s.ModelView().TransformPoint(math.Vec3{X: 1})
	// Scale applies first in object space, then the translation
	if p != (math.Vec3{X: 3}) {
		t.Errorf("composed transform: got %v, want {3 0 0}", p)
	}
}

func TestRotateLightPreservesHeightAndRadius(t *testing.T) {
	s := NewOfflineState()
	s.SetLightPos(math.Vec3{X: 0, Y: 10, Z: 20})
	s.RotateLight(1.3)

	lp := s.LightPos()
	if lp.Y != 10 {
		t.Errorf("light height should be unchanged, got %f", lp.Y)
	}
	r0 := float64(20.0)
	r1 := float64(lp.X*lp.X + lp.Z*lp.Z)
	if r1 < r0*r0*0.999 || r1 > r0*r0*1.001 {
		t.Errorf("light orbit radius should be preserved, got %f", r1)
	}
}

func TestLoadIdentityResetsStack(t *testing.T) {
	s := NewOfflineState()
	s.PushModelView()
	s.PushModelView()
	s.ApplyModelView(math.Translate(9, 9, 9))

	s.LoadIdentityModelView()

	if s.StackDepth() != 1 {
		t.Errorf("LoadIdentityModelView should reset depth to 1, got %d", s.StackDepth())
	}
	if s.ModelView() != math.Identity() {
		t.Error("model-view should be identity after reset")
	}
}
