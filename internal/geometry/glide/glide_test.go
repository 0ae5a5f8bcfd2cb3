package glide

import (
	"math"
	"testing"

	"github.com/louisbranch/dislocation.network/internal/geometry"
)

func TestPreciseGlidePlaneContainsBothDirections(t *testing.T) {
	law := CrossSlipLaw{}
	burg := geometry.Vec3{1, 1, 0}
	lineDir := geometry.Vec3{0, 0, 1}

	plane := law.PreciseGlidePlane(burg, lineDir)
	if math.Abs(geometry.Dot(plane, burg)) > 1e-12 {
		t.Fatalf("plane %v does not contain the Burgers vector", plane)
	}
	if math.Abs(geometry.Dot(plane, lineDir)) > 1e-12 {
		t.Fatalf("plane %v does not contain the line direction", plane)
	}
}

func TestPreciseGlidePlaneDegenerateForScrew(t *testing.T) {
	law := CrossSlipLaw{}
	burg := geometry.Vec3{0, 0, 1}
	// A screw segment runs parallel to its Burgers vector.
	plane := law.PreciseGlidePlane(burg, geometry.Vec3{0, 0, 1})
	if geometry.Dot(plane, plane) > 1e-12 {
		t.Fatalf("expected degenerate plane for screw, got %v", plane)
	}
}

func TestScrewGlidePlaneDeterministicAndValid(t *testing.T) {
	law := CrossSlipLaw{}
	tests := []struct {
		name string
		burg geometry.Vec3
	}{
		{name: "axis aligned", burg: geometry.Vec3{0, 0, 2}},
		{name: "mixed components", burg: geometry.Vec3{1, 1, 0}},
		{name: "negative components", burg: geometry.Vec3{-1, 2, -3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first := law.ScrewGlidePlane(tc.burg)
			second := law.ScrewGlidePlane(tc.burg)
			if first != second {
				t.Fatalf("screw plane not deterministic: %v vs %v", first, second)
			}
			if math.Abs(geometry.Dot(first, tc.burg)) > 1e-12 {
				t.Fatalf("screw plane %v does not contain Burgers vector %v", first, tc.burg)
			}
			if math.Abs(first.Norm()-1) > 1e-12 {
				t.Fatalf("screw plane %v is not unit length", first)
			}
		})
	}
}
