package consistency

import (
	"testing"

	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/consistency/oplog"
	"github.com/louisbranch/dislocation.network/internal/geometry"
)

// TestResetSegmentForceScenario pins the spec scenario: node (0,3) with a
// single arm to (1,7) carrying force (1,2,3); resetting the arm to (4,5,6)
// leaves the total force equal to (4,5,6).
func TestResetSegmentForceScenario(t *testing.T) {
	ctx := testContext(t, 0)
	end := domain.Tag{Domain: 1, Index: 7}
	nodeA := &domain.Node{
		Tag:  domain.Tag{Domain: 0, Index: 3},
		Arms: []domain.Arm{{Nbr: end, Force: geometry.Vec3{1, 2, 3}}},
	}
	nodeA.RecomputeForce()
	ctx.Nodes().Put(3, nodeA)

	ctx.ResetSegmentForce(nodeA, end, geometry.Vec3{4, 5, 6}, false)

	if want := (geometry.Vec3{4, 5, 6}); nodeA.Force != want {
		t.Fatalf("total force = %v, want %v", nodeA.Force, want)
	}
	if nodeA.Flags&domain.FlagResetForces == 0 {
		t.Fatal("expected force-stale flag set")
	}
	if ctx.Ops().Len() != 0 {
		t.Fatal("local reset must not append a log entry")
	}
}

// TestResetSegmentForceTotalIsAlwaysArmSum applies repeated resets across a
// multi-arm node and checks the derived-total invariant after each call.
func TestResetSegmentForceTotalIsAlwaysArmSum(t *testing.T) {
	ctx := testContext(t, 0)
	node := &domain.Node{
		Tag: domain.Tag{Domain: 0, Index: 0},
		Arms: []domain.Arm{
			{Nbr: domain.Tag{Domain: 0, Index: 1}, Force: geometry.Vec3{1, 0, 0}},
			{Nbr: domain.Tag{Domain: 1, Index: 4}, Force: geometry.Vec3{0, 2, 0}},
			{Nbr: domain.Tag{Domain: 2, Index: 9}, Force: geometry.Vec3{0, 0, 3}},
		},
	}
	ctx.Nodes().Put(0, node)

	resets := []struct {
		end domain.Tag
		f   geometry.Vec3
	}{
		{end: domain.Tag{Domain: 1, Index: 4}, f: geometry.Vec3{-7, 1, 0}},
		{end: domain.Tag{Domain: 0, Index: 1}, f: geometry.Vec3{2, 2, 2}},
		{end: domain.Tag{Domain: 2, Index: 9}, f: geometry.Vec3{0, -1, 5}},
	}
	for _, r := range resets {
		ctx.ResetSegmentForce(node, r.end, r.f, false)

		var sum geometry.Vec3
		for _, arm := range node.Arms {
			sum = sum.Add(arm.Force)
		}
		if node.Force != sum {
			t.Fatalf("total %v diverged from arm sum %v", node.Force, sum)
		}
	}
}

func TestResetSegmentForceGlobalAppendsEntry(t *testing.T) {
	ctx := testContext(t, 0)
	end := domain.Tag{Domain: 1, Index: 7}
	node := &domain.Node{
		Tag:  domain.Tag{Domain: 0, Index: 3},
		Arms: []domain.Arm{{Nbr: end}},
	}
	ctx.Nodes().Put(3, node)

	ctx.ResetSegmentForce(node, end, geometry.Vec3{4, 5, 6}, true)

	if ctx.Ops().Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", ctx.Ops().Len())
	}
	e := ctx.Ops().Entries()[0]
	if e.Kind != oplog.KindResetSegForces {
		t.Fatalf("unexpected kind %s", e.Kind)
	}
	if e.Tag1 != node.Tag || e.Tag2 != end || e.Tag3 != domain.None {
		t.Fatalf("unexpected participants %+v", e)
	}
	if e.Pos != (geometry.Vec3{4, 5, 6}) {
		t.Fatalf("force triple not carried in position slot: %+v", e)
	}
}

func TestMarkForceObsoleteLocal(t *testing.T) {
	ctx := testContext(t, 0)
	node := &domain.Node{Tag: domain.Tag{Domain: 0, Index: 1}}
	ctx.Nodes().Put(1, node)

	ctx.MarkForceObsolete(node)

	if node.Flags&domain.FlagResetForces == 0 {
		t.Fatal("expected force-stale flag set")
	}
	if ctx.Ops().Len() != 0 {
		t.Fatal("locally owned node must not generate a log entry")
	}
}

func TestMarkForceObsoleteRemoteNotifiesOwner(t *testing.T) {
	ctx := testContext(t, 0)
	remote := &domain.Node{Tag: domain.Tag{Domain: 2, Index: 8}}
	ctx.Remote(2).Nodes.Put(8, remote)

	ctx.MarkForceObsolete(remote)

	if remote.Flags&domain.FlagResetForces == 0 {
		t.Fatal("expected local copy flagged")
	}
	if ctx.Ops().Len() != 1 {
		t.Fatalf("expected 1 log entry for the owner, got %d", ctx.Ops().Len())
	}
	e := ctx.Ops().Entries()[0]
	if e.Kind != oplog.KindMarkForcesObsolete || e.Tag1 != remote.Tag {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Tag2 != domain.None || e.Tag3 != domain.None {
		t.Fatalf("unused participant slots must be sentinels: %+v", e)
	}
}

func planePair(t *testing.T, ctx *Context, burg geometry.Vec3, posB geometry.Vec3, plane geometry.Vec3) (*domain.Node, *domain.Node) {
	t.Helper()
	a := &domain.Node{Tag: domain.Tag{Domain: 0, Index: 0}}
	b := &domain.Node{Tag: domain.Tag{Domain: 0, Index: 1}, Pos: posB}
	ctx.Nodes().Put(0, a)
	ctx.Nodes().Put(1, b)
	link(a, b, burg, plane)
	return a, b
}

func TestRecalcGlidePlaneWritesBothEndpoints(t *testing.T) {
	ctx := testContext(t, 0)
	// Edge segment: Burgers along x, line along z.
	a, b := planePair(t, ctx, geometry.Vec3{1, 0, 0}, geometry.Vec3{0, 0, 100}, geometry.Zero)

	ctx.RecalcGlidePlane(a, b, false)

	want := geometry.Vec3{0, -1, 0} // (1,0,0) x (0,0,1), normalized
	if a.Arms[0].Plane != want {
		t.Fatalf("endpoint a plane = %v, want %v", a.Arms[0].Plane, want)
	}
	if b.Arms[0].Plane != want {
		t.Fatalf("endpoint b plane = %v, want %v", b.Arms[0].Plane, want)
	}
}

func TestRecalcGlidePlaneUsesMinimumImage(t *testing.T) {
	ctx := testContext(t, 0)
	// b sits just across the periodic boundary: the raw separation points
	// +z but the minimum image points -z, flipping the plane sign.
	a, b := planePair(t, ctx, geometry.Vec3{1, 0, 0}, geometry.Vec3{0, 0, 900}, geometry.Zero)

	ctx.RecalcGlidePlane(a, b, false)

	want := geometry.Vec3{0, 1, 0}
	if a.Arms[0].Plane != want {
		t.Fatalf("plane = %v, want %v (minimum image not applied)", a.Arms[0].Plane, want)
	}
}

// TestRecalcGlidePlaneScrewIgnored checks the bit-for-bit guarantee: a
// screw segment with ignoreIfScrew set leaves both existing normals
// untouched.
func TestRecalcGlidePlaneScrewIgnored(t *testing.T) {
	ctx := testContext(t, 0)
	existing := geometry.Vec3{0.123456789, -0.5, 0.7}
	// Screw segment: Burgers parallel to the line direction.
	a, b := planePair(t, ctx, geometry.Vec3{0, 0, 1}, geometry.Vec3{0, 0, 100}, existing)

	ctx.RecalcGlidePlane(a, b, true)

	if a.Arms[0].Plane != existing || b.Arms[0].Plane != existing {
		t.Fatalf("screw segment normals changed: %v / %v", a.Arms[0].Plane, b.Arms[0].Plane)
	}
}

func TestRecalcGlidePlaneScrewPolicy(t *testing.T) {
	ctx := testContext(t, 0)
	burg := geometry.Vec3{0, 0, 1}
	a, b := planePair(t, ctx, burg, geometry.Vec3{0, 0, 100}, geometry.Zero)

	ctx.RecalcGlidePlane(a, b, false)

	plane := a.Arms[0].Plane
	if plane == geometry.Zero {
		t.Fatal("screw policy must pick a plane when ignoreIfScrew is unset")
	}
	if got := geometry.Dot(plane, burg); got != 0 {
		t.Fatalf("screw plane %v does not contain the Burgers vector", plane)
	}
	if b.Arms[0].Plane != plane {
		t.Fatal("screw plane must be written symmetrically")
	}
}

func TestRecalcGlidePlaneNoOps(t *testing.T) {
	ctx := testContext(t, 0)
	a := &domain.Node{Tag: domain.Tag{Domain: 0, Index: 0}}
	b := &domain.Node{Tag: domain.Tag{Domain: 0, Index: 1}}

	// Disconnected pair: a legitimate race, nothing to do.
	ctx.RecalcGlidePlane(a, b, false)
	// Nil and identical handles.
	ctx.RecalcGlidePlane(nil, b, false)
	ctx.RecalcGlidePlane(a, nil, false)
	ctx.RecalcGlidePlane(a, a, false)

	if len(a.Arms) != 0 || len(b.Arms) != 0 {
		t.Fatal("no-op paths must not mutate nodes")
	}
}
