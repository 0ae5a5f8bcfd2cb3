package domain

// Table is the arena-style node table for one domain: slots indexed by
// Tag.Index with a high-water mark bounding lookups. Slots beyond the mark,
// and emptied slots below it, hold nil.
type Table struct {
	slots []*Node
}

// Len returns the table's high-water mark (one past the highest index ever
// occupied), not the number of live nodes.
func (t *Table) Len() int {
	return len(t.slots)
}

// Get returns the node at index, or nil when the index is beyond the
// high-water mark or the slot is empty. A nil result is a legitimate
// transient state, not an error.
func (t *Table) Get(index int) *Node {
	if index < 0 || index >= len(t.slots) {
		return nil
	}
	return t.slots[index]
}

// Put stores a node at index, growing the table as needed. Index assignment
// and reuse policy belong to the mesh-edit layer; the table only stores.
func (t *Table) Put(index int, node *Node) {
	if index < 0 {
		return
	}
	for index >= len(t.slots) {
		t.slots = append(t.slots, nil)
	}
	t.slots[index] = node
}

// Remove empties the slot at index. The high-water mark never shrinks.
func (t *Table) Remove(index int) {
	if index < 0 || index >= len(t.slots) {
		return
	}
	t.slots[index] = nil
}

// Nodes calls fn for every live node in index order.
func (t *Table) Nodes(fn func(*Node)) {
	for _, n := range t.slots {
		if n != nil {
			fn(n)
		}
	}
}

// RemoteDomain caches copies of another domain's nodes. It is populated
// lazily and by replay; a missing entry means the local domain has no
// information about that remote node, which is not an error.
type RemoteDomain struct {
	// ID is the remote domain's number.
	ID int
	// Nodes holds the cached copies, indexed like the remote table.
	Nodes Table
}

// MaxTagIndex returns the highest cached index bound (the cache's
// high-water mark), used to reject lookups without scanning.
func (r *RemoteDomain) MaxTagIndex() int {
	return r.Nodes.Len()
}
