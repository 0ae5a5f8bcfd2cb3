package consistency

import (
	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/consistency/oplog"
	"github.com/louisbranch/dislocation.network/internal/geometry"
)

// screwThreshold bounds the self dot-product below which a derived glide
// plane is treated as degenerate (the segment is screw and the law alone
// cannot pick a unique plane).
const screwThreshold = 1.0e-3

// ResetSegmentForce overwrites the force on nodeA's arm terminating at end
// and re-derives nodeA's total force as the sum over its arms. When global
// is set the matching log entry is appended first, so every remote holder
// of nodeA's tag replays the same reset.
//
// The node is left marked force-stale for the owner's next recompute pass.
func (c *Context) ResetSegmentForce(nodeA *domain.Node, end domain.Tag, f geometry.Vec3, global bool) {
	if nodeA == nil {
		return
	}

	if global {
		c.ops.Append(oplog.Entry{
			Kind: oplog.KindResetSegForces,
			Tag1: nodeA.Tag,
			Tag2: end,
			Tag3: domain.None,
			Pos:  f,
		})
	}

	if i := nodeA.ArmTo(end); i >= 0 {
		nodeA.Arms[i].Force = f
	}

	nodeA.RecomputeForce()
	nodeA.Flags |= domain.FlagResetForces
}

// MarkForceObsolete flags node so its force and velocity are recomputed.
// Setting the local flag is enough for locally owned nodes; for a remote
// node the owning domain must also be told, since only the owner
// recomputes, so a log entry is appended.
func (c *Context) MarkForceObsolete(node *domain.Node) {
	if node == nil {
		return
	}

	node.Flags |= domain.FlagResetForces

	if node.Tag.Domain == c.domainID {
		return
	}

	c.ops.Append(oplog.Entry{
		Kind: oplog.KindMarkForcesObsolete,
		Tag1: node.Tag,
		Tag2: domain.None,
		Tag3: domain.None,
	})
}

// RecalcGlidePlane recomputes the glide plane of the segment between n1 and
// n2 and writes it symmetrically into both endpoints' matching arms.
//
// Nil or identical nodes are a no-op. So is a disconnected pair: a prior
// edit may legitimately have just annihilated the segment (for example two
// reconciled double links after a coarsen), and there is nothing to do.
//
// The line direction is the minimum periodic image of n2-n1, normalized.
// When the law's precise plane is degenerate (screw segment), the existing
// planes are kept if ignoreIfScrew is set; otherwise the law's default
// screw plane is used. Only local state is mutated; propagating the new
// plane to remote replicas is the caller's responsibility via the log.
func (c *Context) RecalcGlidePlane(n1, n2 *domain.Node, ignoreIfScrew bool) {
	if n1 == nil || n2 == nil || n1 == n2 {
		return
	}

	connected, arm1 := c.AreConnected(n1, n2)
	if !connected {
		return
	}
	arm2 := c.ArmIndex(n2, n1)

	burg := n1.Arms[arm1].Burg
	lineDir := c.box.MinImage(n2.Pos.Sub(n1.Pos)).Normalized()

	plane := c.law.PreciseGlidePlane(burg, lineDir)
	if geometry.Dot(plane, plane) < screwThreshold {
		if ignoreIfScrew {
			return
		}
		plane = c.law.ScrewGlidePlane(burg)
	}
	plane = plane.Normalized()

	n1.Arms[arm1].Plane = plane
	if arm2 >= 0 {
		n2.Arms[arm2].Plane = plane
	}
}
