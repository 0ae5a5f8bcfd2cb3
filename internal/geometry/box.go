package geometry

import (
	"fmt"
	"math"
)

// BoundaryKind selects the boundary condition applied along one axis of the
// problem box.
type BoundaryKind int

const (
	// Free leaves coordinates along the axis untouched; there are no
	// periodic images to fold to.
	Free BoundaryKind = iota
	// Periodic wraps coordinates along the axis into the primary image.
	Periodic
)

func (k BoundaryKind) String() string {
	switch k {
	case Free:
		return "free"
	case Periodic:
		return "periodic"
	default:
		return "unknown"
	}
}

// Box describes the simulation problem space: per-axis bounds and boundary
// kinds. The zero Box is not usable; construct one with NewBox.
//
// Side lengths and their inverses are precomputed once because folding runs
// in the inner loops of plane recomputation.
type Box struct {
	min     Vec3
	max     Vec3
	kind    [3]BoundaryKind
	side    Vec3
	invSide Vec3
	center  Vec3
}

// NewBox builds a Box from per-axis bounds and boundary kinds. Every axis
// must satisfy max > min.
func NewBox(min, max Vec3, kind [3]BoundaryKind) (Box, error) {
	for axis := 0; axis < 3; axis++ {
		if max[axis] <= min[axis] {
			return Box{}, fmt.Errorf("box axis %d: max %v must exceed min %v", axis, max[axis], min[axis])
		}
	}
	b := Box{min: min, max: max, kind: kind}
	for axis := 0; axis < 3; axis++ {
		b.side[axis] = max[axis] - min[axis]
		b.invSide[axis] = 1 / b.side[axis]
		b.center[axis] = (max[axis] + min[axis]) * 0.5
	}
	return b, nil
}

// Side returns the box side lengths.
func (b Box) Side() Vec3 { return b.side }

// Center returns the box center.
func (b Box) Center() Vec3 { return b.center }

// Fold adjusts a position to the corresponding point within the primary
// image of the problem space. Positions already inside the primary image are
// returned unchanged, so Fold is idempotent.
func (b Box) Fold(p Vec3) Vec3 {
	for axis := 0; axis < 3; axis++ {
		if b.kind[axis] != Periodic {
			continue
		}
		p[axis] -= math.RoundToEven((p[axis]-b.center[axis])*b.invSide[axis]) * b.side[axis]
	}
	return p
}

// NearestImage returns the image of p closest to ref. The result is not
// required to lie in the primary image; it may be in a periodic image.
func (b Box) NearestImage(ref, p Vec3) Vec3 {
	for axis := 0; axis < 3; axis++ {
		if b.kind[axis] != Periodic {
			continue
		}
		p[axis] -= math.RoundToEven((p[axis]-ref[axis])*b.invSide[axis]) * b.side[axis]
	}
	return p
}

// MinImage returns the minimum image of a displacement vector: the shortest
// vector, under the box's periodic images, equivalent to v. Idempotent.
//
// Typical use passes the vector from a source point to a secondary point;
// the result points from the source to the closest image of the secondary.
func (b Box) MinImage(v Vec3) Vec3 {
	for axis := 0; axis < 3; axis++ {
		if b.kind[axis] != Periodic {
			continue
		}
		v[axis] -= math.RoundToEven(v[axis]*b.invSide[axis]) * b.side[axis]
	}
	return v
}
