// Package domain holds the data model of the distributed dislocation
// network: node tags, arms, nodes, and the per-domain node tables.
//
// A node is owned and mutated only by its home domain. Copies held by other
// domains are read-mostly caches refreshed exclusively through operation-log
// replay, never through speculative local mutation.
package domain

import "fmt"

// Tag is the globally unique identity of a node: the owning domain and the
// node's index in that domain's table. Tags are immutable once assigned;
// equality is structural.
type Tag struct {
	Domain int
	Index  int
}

// None is the sentinel tag marking an unused participant slot in an
// operation-log entry or a tombstoned arm.
var None = Tag{Domain: -1, Index: -1}

// Valid reports whether both tag fields are non-negative. An invalid tag on
// a resolution request is a programming error, not a runtime condition.
func (t Tag) Valid() bool {
	return t.Domain >= 0 && t.Index >= 0
}

// String renders the tag in the conventional (domain,index) form.
func (t Tag) String() string {
	return fmt.Sprintf("(%d,%d)", t.Domain, t.Index)
}
