package game

import "math"

// normalizeEpsilon is the length below which a vector is treated as zero.
// Normalizing a near-zero vector would blow up into garbage directions.
const normalizeEpsilon = 1e-4

// Vec2 is an immutable 2D vector. All methods return a new value.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSq returns the squared length of v. Prefer this for distance
// comparisons in the collision loops.
func (v Vec2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the direction of v, or the zero
// vector when v is too short to carry a direction.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < normalizeEpsilon {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// WithLength returns a vector in the direction of v with the given length.
func (v Vec2) WithLength(l float64) Vec2 {
	return v.Normalize().Scale(l)
}

// ReflectX returns v with its X component negated.
func (v Vec2) ReflectX() Vec2 {
	return Vec2{-v.X, v.Y}
}

// ReflectY returns v with its Y component negated.
func (v Vec2) ReflectY() Vec2 {
	return Vec2{v.X, -v.Y}
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
