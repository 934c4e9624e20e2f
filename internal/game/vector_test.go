package game

import (
	"math"
	"testing"
)

// TestVecAddSubScale tests basic arithmetic
func TestVecAddSubScale(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{1, -2}

	if got := a.Add(b); got != (Vec2{4, 2}) {
		t.Errorf("Expected {4 2}, got %v", got)
	}
	if got := a.Sub(b); got != (Vec2{2, 6}) {
		t.Errorf("Expected {2 6}, got %v", got)
	}
	if got := a.Scale(2); got != (Vec2{6, 8}) {
		t.Errorf("Expected {6 8}, got %v", got)
	}
}

// TestVecLength tests length and squared length
func TestVecLength(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Expected length 5, got %f", got)
	}
	if got := v.LengthSq(); got != 25 {
		t.Errorf("Expected squared length 25, got %f", got)
	}
}

// TestVecNormalize tests unit scaling
func TestVecNormalize(t *testing.T) {
	n := Vec2{10, 0}.Normalize()
	if n != (Vec2{1, 0}) {
		t.Errorf("Expected {1 0}, got %v", n)
	}

	n = Vec2{3, 4}.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Expected unit length, got %f", n.Length())
	}
}

// TestVecNormalizeNearZero tests that degenerate vectors normalize to zero
func TestVecNormalizeNearZero(t *testing.T) {
	n := Vec2{1e-5, 1e-5}.Normalize()
	if !n.IsZero() {
		t.Errorf("Expected zero vector, got %v", n)
	}
}

// TestVecWithLength tests re-scaling to a target length
func TestVecWithLength(t *testing.T) {
	v := Vec2{0, 2}.WithLength(160)
	if v != (Vec2{0, 160}) {
		t.Errorf("Expected {0 160}, got %v", v)
	}
}

// TestVecReflect tests axis reflection
func TestVecReflect(t *testing.T) {
	v := Vec2{3, -4}
	if got := v.ReflectX(); got != (Vec2{-3, -4}) {
		t.Errorf("Expected {-3 -4}, got %v", got)
	}
	if got := v.ReflectY(); got != (Vec2{3, 4}) {
		t.Errorf("Expected {3 4}, got %v", got)
	}
}
