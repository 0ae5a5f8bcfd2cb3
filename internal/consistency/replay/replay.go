// Package replay applies operation-log entries received from remote
// domains to the local domain's state.
//
// Entries from one source domain form an independent stream and are applied
// in strict append order; later entries may depend on state established by
// earlier ones. No ordering holds, or is needed, across streams from
// different source domains.
package replay

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/dislocation.network/internal/consistency"
	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/consistency/oplog"
	"github.com/louisbranch/dislocation.network/internal/platform/errors"
)

// tagRequirement specifies which participant tags an entry kind must carry.
type tagRequirement uint8

const (
	requireTag1 tagRequirement = 1 << iota
	requireTag2
	requireTag3
)

// handlerEntry declares the preconditions and apply function for one kind.
type handlerEntry struct {
	tags  tagRequirement
	apply func(*Applier, oplog.Entry) error
}

// handlers maps each operation kind to its handler entry.
var handlers = map[oplog.Kind]handlerEntry{
	oplog.KindResetSegForces: {
		tags:  requireTag1 | requireTag2,
		apply: (*Applier).applyResetSegForces,
	},
	oplog.KindMarkForcesObsolete: {
		tags:  requireTag1,
		apply: (*Applier).applyMarkForcesObsolete,
	},
	oplog.KindInsertArm: {
		tags:  requireTag1 | requireTag2,
		apply: (*Applier).applyInsertArm,
	},
	oplog.KindRemoveArm: {
		tags:  requireTag1 | requireTag2,
		apply: (*Applier).applyRemoveArm,
	},
	oplog.KindChangeArmBurg: {
		tags:  requireTag1 | requireTag2,
		apply: (*Applier).applyChangeArmBurg,
	},
	oplog.KindChangeConnection: {
		tags:  requireTag1 | requireTag2 | requireTag3,
		apply: (*Applier).applyChangeConnection,
	},
}

// Applier replays one remote domain's entries against a local Context.
type Applier struct {
	// Domain is the local domain context entries are applied to.
	Domain *consistency.Context
}

// Apply replays a batch of entries received from source, in order. It stops
// at the first failure so the caller can see exactly which record broke the
// stream; state mutated by earlier entries in the batch remains applied.
func (a *Applier) Apply(ctx context.Context, source int, entries []oplog.Entry) error {
	tracer := otel.Tracer("dislocation.network/replay")
	_, span := tracer.Start(ctx, "replay.Apply")
	defer span.End()
	span.SetAttributes(
		attribute.Int("replay.source_domain", source),
		attribute.Int("replay.entries", len(entries)),
	)

	for i, entry := range entries {
		if err := a.applyOne(entry); err != nil {
			return fmt.Errorf("apply entry %d (%s) from domain %d: %w", i, entry.Kind, source, err)
		}
	}
	return nil
}

// applyOne checks the entry's declared requirements and dispatches it.
func (a *Applier) applyOne(entry oplog.Entry) error {
	h, ok := handlers[entry.Kind]
	if !ok {
		return errors.Fatal(errors.CodeOpKindUnknown,
			fmt.Sprintf("no replay handler for op kind %d", entry.Kind))
	}

	if h.tags&requireTag1 != 0 && !entry.Tag1.Valid() {
		return errors.New(errors.CodeOpRecordCorrupt,
			fmt.Sprintf("%s entry is missing participant 1", entry.Kind))
	}
	if h.tags&requireTag2 != 0 && !entry.Tag2.Valid() {
		return errors.New(errors.CodeOpRecordCorrupt,
			fmt.Sprintf("%s entry is missing participant 2", entry.Kind))
	}
	if h.tags&requireTag3 != 0 && !entry.Tag3.Valid() {
		return errors.New(errors.CodeOpRecordCorrupt,
			fmt.Sprintf("%s entry is missing participant 3", entry.Kind))
	}

	return h.apply(a, entry)
}

// lookup resolves a participant tag, materializing a remote cache slot when
// the entry legitimately references a node this domain has not seen yet.
func (a *Applier) lookup(tag domain.Tag, materialize bool) (*domain.Node, error) {
	node, err := a.Domain.Resolve(tag)
	if err != nil {
		return nil, err
	}
	if node != nil || !materialize {
		return node, nil
	}
	if tag.Domain == a.Domain.DomainID() {
		// A local node can only be created by this domain's own
		// mesh-edit layer; replay never invents local state.
		return nil, nil
	}
	node = &domain.Node{Tag: tag}
	a.Domain.Remote(tag.Domain).Nodes.Put(tag.Index, node)
	return node, nil
}
