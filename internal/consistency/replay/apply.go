package replay

import (
	"fmt"

	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/consistency/oplog"
	"github.com/louisbranch/dislocation.network/internal/platform/errors"
)

// applyResetSegForces replays a segment-force reset on the local copy of
// the first participant. The force triple travels in the entry's position
// slot, matching the wire record layout.
func (a *Applier) applyResetSegForces(entry oplog.Entry) error {
	node, err := a.lookup(entry.Tag1, false)
	if err != nil {
		return err
	}
	if node == nil {
		// This domain holds no copy of the node; the reset does not
		// concern it.
		return nil
	}
	a.Domain.ResetSegmentForce(node, entry.Tag2, entry.Pos, false)
	return nil
}

// applyMarkForcesObsolete replays a stale-force marking on the local copy
// of the first participant.
func (a *Applier) applyMarkForcesObsolete(entry oplog.Entry) error {
	node, err := a.lookup(entry.Tag1, false)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	node.Flags |= domain.FlagResetForces
	return nil
}

// applyInsertArm replays an arm insertion from Tag1 to Tag2 carrying the
// entry's Burgers vector and plane normal.
func (a *Applier) applyInsertArm(entry oplog.Entry) error {
	node, err := a.lookup(entry.Tag1, true)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	if node.ArmTo(entry.Tag2) >= 0 {
		// Already linked; an earlier entry in this stream or a prior
		// cycle established the arm.
		return nil
	}
	node.InsertArm(domain.Arm{
		Nbr:   entry.Tag2,
		Burg:  entry.Burg,
		Plane: entry.Plane,
	})
	return nil
}

// applyRemoveArm replays an arm removal, tombstoning the slot.
func (a *Applier) applyRemoveArm(entry oplog.Entry) error {
	node, err := a.lookup(entry.Tag1, false)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	i := node.ArmTo(entry.Tag2)
	if i < 0 {
		return nil
	}
	node.RemoveArm(i)
	node.RecomputeForce()
	return nil
}

// applyChangeArmBurg replays a Burgers-vector and plane change on the arm
// from Tag1 to Tag2.
func (a *Applier) applyChangeArmBurg(entry oplog.Entry) error {
	node, err := a.lookup(entry.Tag1, false)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	i := node.ArmTo(entry.Tag2)
	if i < 0 {
		return errors.New(errors.CodeReplayArmMissing,
			fmt.Sprintf("node %s has no arm to %s", entry.Tag1, entry.Tag2))
	}
	node.Arms[i].Burg = entry.Burg
	node.Arms[i].Plane = entry.Plane
	return nil
}

// applyChangeConnection replays a relink: the arm of Tag1 terminating at
// Tag2 is redirected to terminate at Tag3, keeping its physical attributes.
func (a *Applier) applyChangeConnection(entry oplog.Entry) error {
	node, err := a.lookup(entry.Tag1, false)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}
	i := node.ArmTo(entry.Tag2)
	if i < 0 {
		return errors.New(errors.CodeReplayArmMissing,
			fmt.Sprintf("node %s has no arm to %s", entry.Tag1, entry.Tag2))
	}
	node.Arms[i].Nbr = entry.Tag3
	return nil
}
