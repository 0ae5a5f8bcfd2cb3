// Package glide supplies the glide-plane selection laws consumed by segment
// plane recomputation.
//
// The consistency layer itself never decides crystallography; it asks a Law.
// The default CrossSlipLaw implements the standard construction: the precise
// glide plane normal of a segment is the cross product of its Burgers vector
// and line direction, which vanishes for screw segments where the plane is
// not unique and a policy choice is required.
package glide

import (
	"math"

	"github.com/louisbranch/dislocation.network/internal/geometry"
)

// Law selects glide planes for dislocation segments.
type Law interface {
	// PreciseGlidePlane derives the glide-plane normal from a Burgers
	// vector and a unit line direction. The result is zero (or near-zero)
	// for screw segments.
	PreciseGlidePlane(burg, lineDir geometry.Vec3) geometry.Vec3

	// ScrewGlidePlane picks a default plane containing the Burgers vector
	// for a screw segment, where PreciseGlidePlane is degenerate. The
	// choice must be deterministic so every domain picks the same plane.
	ScrewGlidePlane(burg geometry.Vec3) geometry.Vec3
}

// CrossSlipLaw is the default Law.
type CrossSlipLaw struct{}

// PreciseGlidePlane returns burg x lineDir, unnormalized. Callers decide how
// to treat a near-zero result.
func (CrossSlipLaw) PreciseGlidePlane(burg, lineDir geometry.Vec3) geometry.Vec3 {
	return geometry.Cross(burg, lineDir)
}

// ScrewGlidePlane crosses the Burgers vector with the coordinate axis least
// parallel to it, yielding a deterministic plane that contains the Burgers
// vector regardless of its orientation.
func (CrossSlipLaw) ScrewGlidePlane(burg geometry.Vec3) geometry.Vec3 {
	least := 0
	min := math.Abs(burg[0])
	for axis := 1; axis < 3; axis++ {
		if a := math.Abs(burg[axis]); a < min {
			min = a
			least = axis
		}
	}
	var axisVec geometry.Vec3
	axisVec[least] = 1
	return geometry.Cross(burg, axisVec).Normalized()
}
