// Package geometry implements the vector algebra and periodic-boundary
// folding used by the network consistency layer.
//
// All functions are pure: they read only their arguments and share no state,
// so results are deterministic and safe to compute from any domain.
package geometry

import "math"

// Vec3 is a 3-component vector (position, force, Burgers vector, or plane
// normal depending on context).
type Vec3 [3]float64

// Zero is the zero vector.
var Zero = Vec3{}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of v and w.
func Dot(v, w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns the cross product v x w.
func Cross(v, w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(Dot(v, v))
}

// Normalized returns v scaled to unit length. Normalizing the zero vector
// returns the zero vector unchanged; callers that must distinguish a
// degenerate direction check Norm first.
func (v Vec3) Normalized() Vec3 {
	n2 := Dot(v, v)
	if n2 <= 0 {
		return v
	}
	return v.Scale(1 / math.Sqrt(n2))
}
