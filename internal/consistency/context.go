// Package consistency keeps a domain's view of the distributed dislocation
// network consistent: it resolves tags to local or cached remote nodes,
// arbitrates segment ownership, and records cross-domain effects in the
// operation log for replay on remote domains.
//
// One Context exists per domain (one rank of the decomposed computation).
// Nothing in this package blocks or synchronizes; the collective exchange
// of operation logs happens in the transport collaborator between cycles.
package consistency

import (
	"fmt"
	"log"

	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/consistency/oplog"
	"github.com/louisbranch/dislocation.network/internal/geometry"
	"github.com/louisbranch/dislocation.network/internal/geometry/glide"
	"github.com/louisbranch/dislocation.network/internal/platform/errors"
)

// Context is the per-domain state of the consistency layer. All operations
// take a Context explicitly; there is no package-level mutable state.
//
// A Context is confined to its domain's single thread of control and is not
// safe for concurrent use.
type Context struct {
	domainID int
	cycle    int
	box      geometry.Box
	law      glide.Law

	nodes   domain.Table
	remotes map[int]*domain.RemoteDomain
	ops     *oplog.Log

	// abort, when set, is invoked once before a fatal error is returned
	// so the orchestration layer can begin a coordinated shutdown of all
	// domains. The error still propagates to the caller.
	abort func(error)
}

// Config assembles a Context.
type Config struct {
	// DomainID is this domain's number within the decomposition.
	DomainID int
	// Box is the periodic problem space.
	Box geometry.Box
	// Law selects glide planes; defaults to glide.CrossSlipLaw.
	Law glide.Law
	// Abort is the distributed-shutdown hook invoked on fatal errors.
	Abort func(error)
}

// NewContext builds the per-domain context. It is called once at domain
// startup; the operation log it allocates lives until process teardown.
func NewContext(cfg Config) (*Context, error) {
	if cfg.DomainID < 0 {
		return nil, fmt.Errorf("domain id %d must be non-negative", cfg.DomainID)
	}
	law := cfg.Law
	if law == nil {
		law = glide.CrossSlipLaw{}
	}
	return &Context{
		domainID: cfg.DomainID,
		box:      cfg.Box,
		law:      law,
		remotes:  make(map[int]*domain.RemoteDomain),
		ops:      oplog.NewLog(),
		abort:    cfg.Abort,
	}, nil
}

// DomainID returns this domain's number.
func (c *Context) DomainID() int { return c.domainID }

// Cycle returns the current global cycle number.
func (c *Context) Cycle() int { return c.cycle }

// AdvanceCycle increments the cycle counter. The simulation driver calls
// it exactly once per global step, on every domain, so parity-dependent
// arbitration stays aligned across the computation.
func (c *Context) AdvanceCycle() { c.cycle++ }

// Box returns the problem space.
func (c *Context) Box() geometry.Box { return c.box }

// Ops returns the domain's operation log for draining by the transport.
func (c *Context) Ops() *oplog.Log { return c.ops }

// Nodes returns the local node table. Only the mesh-edit layer of this
// domain creates or destroys local nodes.
func (c *Context) Nodes() *domain.Table { return &c.nodes }

// Remote returns the cache for a remote domain, creating it on first use.
func (c *Context) Remote(domainID int) *domain.RemoteDomain {
	r, ok := c.remotes[domainID]
	if !ok {
		r = &domain.RemoteDomain{ID: domainID}
		c.remotes[domainID] = r
	}
	return r
}

// fatal routes an invariant violation through the abort hook before
// returning it.
func (c *Context) fatal(err error) error {
	if c.abort != nil {
		c.abort(err)
	}
	return err
}

// Resolve returns the node identified by tag.
//
// A tag with a negative field is a programming error and yields a fatal
// error. A nil node with a nil error is a legitimate outcome: a local node
// not yet materialized, a remote domain never contacted, or a remote index
// this domain has no information about. Callers branch on presence.
func (c *Context) Resolve(tag domain.Tag) (*domain.Node, error) {
	if !tag.Valid() {
		return nil, c.fatal(errors.Fatal(errors.CodeTagInvalid,
			fmt.Sprintf("resolve: invalid tag %s", tag)))
	}

	if tag.Domain == c.domainID {
		return c.nodes.Get(tag.Index), nil
	}

	remote, ok := c.remotes[tag.Domain]
	if !ok {
		return nil, nil
	}
	return remote.Nodes.Get(tag.Index), nil
}

// AreConnected reports whether a segment links a and b, returning the index
// of a's arm terminating at b. The first matching arm wins; the arm index
// is -1 when the nodes are not connected or either handle is nil.
func (c *Context) AreConnected(a, b *domain.Node) (bool, int) {
	if a == nil || b == nil {
		return false, -1
	}
	if i := a.ArmTo(b.Tag); i >= 0 {
		return true, i
	}
	return false, -1
}

// ArmIndex returns the index of a's arm terminating at b, or -1 when the
// nodes are not connected.
func (c *Context) ArmIndex(a, b *domain.Node) int {
	_, i := c.AreConnected(a, b)
	return i
}

// NthValidNeighbor resolves the n-th (0-based) valid neighbor of node,
// skipping tombstoned arm slots. It returns nil, with a diagnostic, when
// fewer than n+1 valid arms exist; resolution failures propagate.
func (c *Context) NthValidNeighbor(node *domain.Node, n int) (*domain.Node, error) {
	if node == nil {
		return nil, nil
	}
	i := node.NthValidArm(n)
	if i < 0 {
		log.Printf("no valid neighbor %d for node %s (%d arms, %d valid)",
			n, node.Tag, len(node.Arms), node.ValidArms())
		return nil, nil
	}
	return c.Resolve(node.Arms[i].Nbr)
}
