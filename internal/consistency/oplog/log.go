package oplog

// blockSize is the fixed growth increment of the log's backing storage.
// Growth by fixed blocks keeps Append amortized O(1) without doubling the
// footprint of a log that is cleared and refilled every cycle.
const blockSize = 2000

// Log is an ordered, append-only (until cleared) sequence of entries owned
// by one domain. The backing storage is allocated once, grown in fixed
// blocks, and retained across Clear calls for reuse across cycles.
//
// Log is not safe for concurrent use; exactly one domain appends to its own
// log.
type Log struct {
	entries []Entry
	count   int
}

// NewLog allocates a log with one block of capacity. A single log is
// created per domain at startup and lives until process teardown.
func NewLog() *Log {
	return &Log{entries: make([]Entry, blockSize)}
}

// Len returns the number of pending entries.
func (l *Log) Len() int {
	return l.count
}

// Cap returns the current capacity in entries.
func (l *Log) Cap() int {
	return len(l.entries)
}

// Append records an entry after all previously appended entries. The log
// never reorders.
func (l *Log) Append(e Entry) {
	if l.count >= len(l.entries) {
		l.grow()
	}
	l.entries[l.count] = e
	l.count++
}

// grow extends the backing storage by one block, preserving prior entries.
func (l *Log) grow() {
	extended := make([]Entry, len(l.entries)+blockSize)
	copy(extended, l.entries[:l.count])
	l.entries = extended
}

// Entries returns the pending entries in insertion order. The slice aliases
// the log's storage and is invalidated by the next Append or Clear.
func (l *Log) Entries() []Entry {
	return l.entries[:l.count]
}

// Clear resets the count to zero and zeroes the used slots of the backing
// storage. Capacity is retained.
func (l *Log) Clear() {
	for i := 0; i < l.count; i++ {
		l.entries[i] = Entry{}
	}
	l.count = 0
}

// Drain returns a copy of the pending entries in insertion order and clears
// the log. The transport collaborator calls Drain at each synchronization
// boundary.
func (l *Log) Drain() []Entry {
	if l.count == 0 {
		return nil
	}
	out := make([]Entry, l.count)
	copy(out, l.entries[:l.count])
	l.Clear()
	return out
}
