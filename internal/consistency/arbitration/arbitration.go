// Package arbitration decides which domain is authoritative for a segment
// crossing a domain boundary.
//
// # Determinism
//
// Ownership is a pure function of (operation class, cycle parity, the two
// domain numbers). Both domains touching a boundary segment compute the
// same answer independently, with no communication, and for any pair of
// distinct domains exactly one side owns the segment for a given class and
// parity. Alternating the tie-break with cycle parity keeps one domain from
// perpetually winning arbitration for a boundary and starving the other
// side's edits.
package arbitration

import (
	"fmt"

	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/platform/errors"
)

// OpClass is the category of topological operation governing which
// ownership tie-break rule applies.
type OpClass int

const (
	OpClassUnspecified OpClass = iota
	OpClassSeparation
	OpClassCollision
	OpClassRemesh
)

func (c OpClass) String() string {
	switch c {
	case OpClassUnspecified:
		return "unspecified"
	case OpClassSeparation:
		return "separation"
	case OpClassCollision:
		return "collision"
	case OpClassRemesh:
		return "remesh"
	default:
		return "unknown"
	}
}

// OwnsSegment reports whether thisDomain owns the segment beginning in
// thisDomain and terminating at end during the given cycle.
//
// A segment with both endpoints in one domain is trivially owned by that
// domain. For boundary-crossing segments under separation and collision
// handling, the lower-numbered domain owns on even cycles and the
// higher-numbered domain on odd cycles; remesh ownership is the exact
// reverse. An unrecognized class is a fatal configuration error.
func OwnsSegment(class OpClass, cycle int, thisDomain int, end domain.Tag) (bool, error) {
	if thisDomain == end.Domain {
		return true, nil
	}

	odd := cycle&0x01 != 0

	switch class {
	case OpClassSeparation, OpClassCollision:
		if odd {
			return thisDomain > end.Domain, nil
		}
		return thisDomain < end.Domain, nil
	case OpClassRemesh:
		if odd {
			return thisDomain < end.Domain, nil
		}
		return thisDomain > end.Domain, nil
	default:
		return false, errors.Fatal(errors.CodeOpClassUnknown,
			fmt.Sprintf("invalid op class %d in segment ownership arbitration", class))
	}
}
