package engine

import (
	"math"
	"testing"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/object"
)

func ball(r float64, bt object.BodyType) object.Cold {
	return object.Cold{BodyType: bt, Shape: object.Shape{Kind: object.ShapeBall, Radius: r}}
}

func at(x, y, z float64) object.Warm {
	return object.Warm{Position: geom.Vec3{X: x, Y: y, Z: z}}
}

func TestBasicStepGravity(t *testing.T) {
	w := NewBasic(0.1, -10, 1.1)
	h := w.Insert(ball(1, object.Dynamic), at(0, 0, 0))
	w.Step()

	warm, ok := w.Warm(h, 1)
	if !ok {
		t.Fatalf("body vanished")
	}
	if math.Abs(warm.LinVel.Y+1) > 1e-9 {
		t.Fatalf("linvel.y = %v, want -1", warm.LinVel.Y)
	}
	if math.Abs(warm.Position.Y+0.1) > 1e-9 {
		t.Fatalf("pos.y = %v, want -0.1", warm.Position.Y)
	}
	if warm.Timestamp != 1 {
		t.Fatalf("timestamp = %d", warm.Timestamp)
	}
}

func TestBasicFixedAndKinematic(t *testing.T) {
	w := NewBasic(0.5, -10, 1.1)
	fixed := w.Insert(ball(1, object.Fixed), at(3, 3, 3))
	kin := w.Insert(ball(1, object.Kinematic), at(0, 0, 0))

	w.SetNextKinematicTarget(fixed, geom.Vec3{X: 9}) // ignored for non-kinematic
	w.SetNextKinematicTarget(kin, geom.Vec3{X: 1})
	w.Step()

	fw, _ := w.Warm(fixed, 0)
	if fw.Position != (geom.Vec3{X: 3, Y: 3, Z: 3}) {
		t.Fatalf("fixed body moved: %v", fw.Position)
	}
	kw, _ := w.Warm(kin, 0)
	if kw.Position != (geom.Vec3{X: 1}) {
		t.Fatalf("kinematic body at %v, want target", kw.Position)
	}
	if math.Abs(kw.LinVel.X-2) > 1e-9 {
		t.Fatalf("kinematic linvel.x = %v, want 2", kw.LinVel.X)
	}
}

func TestBasicContactPairs(t *testing.T) {
	w := NewBasic(0.1, 0, 1.1)
	a := w.Insert(ball(1, object.Dynamic), at(0, 0, 0))
	b := w.Insert(ball(1, object.Dynamic), at(1.5, 0, 0))
	w.Insert(ball(1, object.Dynamic), at(50, 0, 0))
	f1 := w.Insert(ball(5, object.Fixed), at(100, 0, 0))
	f2 := w.Insert(ball(5, object.Fixed), at(102, 0, 0))
	_ = f1
	_ = f2

	pairs := w.ContactPairs()
	if len(pairs) != 1 {
		t.Fatalf("got %d contact pairs, want 1 (fixed-fixed excluded): %v", len(pairs), pairs)
	}
	if pairs[0] != [2]Handle{a, b} {
		t.Fatalf("pair = %v", pairs[0])
	}
}

func TestBasicRemoveTearsDownJoints(t *testing.T) {
	w := NewBasic(0.1, 0, 1.1)
	a := w.Insert(ball(1, object.Dynamic), at(0, 0, 0))
	b := w.Insert(ball(1, object.Dynamic), at(5, 0, 0))
	c := w.Insert(ball(1, object.Dynamic), at(10, 0, 0))
	w.InsertJoint(a, b, object.Joint{Kind: "ball"})
	w.InsertJoint(b, c, object.Joint{Kind: "ball"})

	w.Remove(b)

	if len(w.Joints()) != 0 {
		t.Fatalf("joints referencing removed body survived: %v", w.Joints())
	}
	if got := len(w.Handles()); got != 2 {
		t.Fatalf("got %d bodies, want 2", got)
	}
}

func TestBasicInsertJointRequiresLiveEndpoints(t *testing.T) {
	w := NewBasic(0.1, 0, 1.1)
	a := w.Insert(ball(1, object.Dynamic), at(0, 0, 0))
	w.InsertJoint(a, Handle(999), object.Joint{Kind: "ball"})
	if len(w.Joints()) != 0 {
		t.Fatalf("joint to dead handle inserted")
	}
}

func TestBasicWatchRadius(t *testing.T) {
	w := NewBasic(0.1, 0, 1.5)
	h := w.Insert(ball(2, object.Dynamic), at(0, 0, 0))
	if got := w.WatchRadius(h); math.Abs(got-3) > 1e-9 {
		t.Fatalf("watch radius = %v, want 3", got)
	}
	_, r := w.BoundingSphere(h)
	if r != 2 {
		t.Fatalf("bounding radius = %v", r)
	}
}

func TestBasicCuboidBoundingRadius(t *testing.T) {
	w := NewBasic(0.1, 0, 1.1)
	cold := object.Cold{
		BodyType: object.Dynamic,
		Shape:    object.Shape{Kind: object.ShapeCuboid, HalfExtents: geom.Vec3{X: 3, Y: 4, Z: 0}},
	}
	h := w.Insert(cold, at(0, 0, 0))
	_, r := w.BoundingSphere(h)
	if math.Abs(r-5) > 1e-9 {
		t.Fatalf("bounding radius = %v, want 5", r)
	}
}
