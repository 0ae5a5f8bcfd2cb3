// Package oplog implements the per-domain operation log: the ordered record
// of pending cross-domain mutations awaiting replication.
//
// Entries are appended in the order mutations occur and must be replayed in
// that order on the receiving side; later entries may depend on state
// established by earlier ones. Each domain appends only to its own log, so
// the log is never shared between threads.
package oplog

import (
	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/geometry"
)

// Kind enumerates the operation kinds carried by log entries. The numeric
// values are wire-stable; append new kinds, never renumber.
type Kind int32

const (
	// KindUnspecified is the zero value of a cleared slot.
	KindUnspecified Kind = iota
	// KindResetSegForces overwrites the per-arm force of the segment
	// between Tag1 and Tag2 on the receiving domain's copy of Tag1.
	KindResetSegForces
	// KindMarkForcesObsolete instructs the owner of Tag1 to recompute the
	// node's force and velocity.
	KindMarkForcesObsolete
	// KindInsertArm adds an arm from Tag1 to Tag2 carrying the entry's
	// Burgers vector and plane normal.
	KindInsertArm
	// KindRemoveArm tombstones the arm from Tag1 to Tag2.
	KindRemoveArm
	// KindChangeArmBurg overwrites the Burgers vector and plane normal of
	// the arm from Tag1 to Tag2.
	KindChangeArmBurg
	// KindChangeConnection relinks the arm of Tag1 terminating at Tag2 so
	// it terminates at Tag3 instead.
	KindChangeConnection
)

func (k Kind) String() string {
	switch k {
	case KindUnspecified:
		return "unspecified"
	case KindResetSegForces:
		return "reset-seg-forces"
	case KindMarkForcesObsolete:
		return "mark-forces-obsolete"
	case KindInsertArm:
		return "insert-arm"
	case KindRemoveArm:
		return "remove-arm"
	case KindChangeArmBurg:
		return "change-arm-burg"
	case KindChangeConnection:
		return "change-connection"
	default:
		return "unknown"
	}
}

// Entry is one pending cross-domain effect. Participant slots not used by
// the entry's kind hold domain.None; vector fields not used hold zeroes.
// Entries are immutable once appended.
type Entry struct {
	Kind Kind       `json:"kind"`
	Tag1 domain.Tag `json:"tag1"`
	Tag2 domain.Tag `json:"tag2"`
	Tag3 domain.Tag `json:"tag3"`

	Burg  geometry.Vec3 `json:"burg"`
	Pos   geometry.Vec3 `json:"pos"`
	Plane geometry.Vec3 `json:"plane"`
}
