package domain

import (
	"fmt"
	"io"

	"github.com/louisbranch/dislocation.network/internal/geometry"
)

// Flags is the node status flag set.
type Flags uint8

const (
	// FlagResetForces marks a node whose total force and velocity are
	// stale and must be recomputed by the owning domain before use.
	FlagResetForces Flags = 1 << iota
)

// Arm is one edge of the graph as seen from one endpoint: the neighbor's
// tag plus the physical attributes of the segment.
//
// An arm whose neighbor tag has been invalidated (negative domain) is a
// tombstone: a removed-but-not-yet-compacted slot. Tombstones are skipped by
// valid-neighbor queries; they are reclaimed only by an explicit
// CompactArms call, never implicitly.
type Arm struct {
	Nbr   Tag
	Burg  geometry.Vec3 // Burgers vector of the segment
	Plane geometry.Vec3 // glide-plane normal
	Force geometry.Vec3 // per-arm force contribution
}

// Tombstoned reports whether the arm slot has been invalidated.
func (a Arm) Tombstoned() bool {
	return a.Nbr.Domain < 0
}

// Node is a vertex of the distributed graph.
type Node struct {
	Tag   Tag
	Pos   geometry.Vec3
	Vel   geometry.Vec3
	Force geometry.Vec3 // always the sum of arm forces; derived, never set directly
	Arms  []Arm
	Flags Flags
}

// ArmTo returns the index of the arm terminating at tag, or -1 when no such
// arm exists. The first match wins; well-formed nodes carry at most one arm
// to a given neighbor.
func (n *Node) ArmTo(tag Tag) int {
	for i := range n.Arms {
		if n.Arms[i].Nbr == tag {
			return i
		}
	}
	return -1
}

// ValidArms counts the non-tombstoned arms.
func (n *Node) ValidArms() int {
	count := 0
	for i := range n.Arms {
		if !n.Arms[i].Tombstoned() {
			count++
		}
	}
	return count
}

// NthValidArm returns the index of the n-th (0-based) non-tombstoned arm,
// or -1 when fewer than n+1 valid arms exist.
func (n *Node) NthValidArm(nth int) int {
	if nth < 0 {
		return -1
	}
	seen := -1
	for i := range n.Arms {
		if n.Arms[i].Tombstoned() {
			continue
		}
		seen++
		if seen == nth {
			return i
		}
	}
	return -1
}

// RecomputeForce overwrites the node's total force with the sum of its
// valid arm forces. Total force is a derived quantity; every mutation of an
// arm force must be followed by a recompute.
func (n *Node) RecomputeForce() {
	n.Force = geometry.Zero
	for i := range n.Arms {
		if n.Arms[i].Tombstoned() {
			continue
		}
		n.Force = n.Force.Add(n.Arms[i].Force)
	}
}

// InsertArm appends an arm to the node's neighbor list.
func (n *Node) InsertArm(arm Arm) {
	n.Arms = append(n.Arms, arm)
}

// RemoveArm tombstones the arm at index i. The slot stays in place until
// CompactArms runs, so indices of other arms remain stable across the edit.
func (n *Node) RemoveArm(i int) {
	if i < 0 || i >= len(n.Arms) {
		return
	}
	n.Arms[i] = Arm{Nbr: None}
}

// CompactArms drops tombstoned slots, preserving the relative order of the
// surviving arms. This is the explicit maintenance pass; queries never
// compact as a side effect.
func (n *Node) CompactArms() {
	kept := n.Arms[:0]
	for i := range n.Arms {
		if !n.Arms[i].Tombstoned() {
			kept = append(kept, n.Arms[i])
		}
	}
	n.Arms = kept
}

// Dump writes a human-readable description of the node for debugging. The
// format is not stable and must not be parsed by machines.
func (n *Node) Dump(w io.Writer) {
	fmt.Fprintf(w, "  node%s arms %d,", n.Tag, len(n.Arms))
	for i := range n.Arms {
		fmt.Fprintf(w, " %s", n.Arms[i].Nbr)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  node%s position = (%.15e %.15e %.15e)\n", n.Tag, n.Pos[0], n.Pos[1], n.Pos[2])
	fmt.Fprintf(w, "  node%s v = (%.15e %.15e %.15e)\n", n.Tag, n.Vel[0], n.Vel[1], n.Vel[2])
	fmt.Fprintf(w, "  node%s f = (%.15e %.15e %.15e)\n", n.Tag, n.Force[0], n.Force[1], n.Force[2])
	for i := range n.Arms {
		a := &n.Arms[i]
		fmt.Fprintf(w, "  node%s arm[%d]-> %s f = (%.15e %.15e %.15e)\n", n.Tag, i, a.Nbr, a.Force[0], a.Force[1], a.Force[2])
	}
	for i := range n.Arms {
		a := &n.Arms[i]
		fmt.Fprintf(w, "  node%s arm[%d]-> %s b = (%.15e %.15e %.15e)\n", n.Tag, i, a.Nbr, a.Burg[0], a.Burg[1], a.Burg[2])
	}
	for i := range n.Arms {
		a := &n.Arms[i]
		fmt.Fprintf(w, "  node%s arm[%d]-> %s n = (%.15e %.15e %.15e)\n", n.Tag, i, a.Nbr, a.Plane[0], a.Plane[1], a.Plane[2])
	}
}
