package watch

import (
	"testing"

	"github.com/google/uuid"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/object"
)

func ball(r float64) object.Cold {
	return object.Cold{BodyType: object.Dynamic, Shape: object.Shape{Kind: object.ShapeBall, Radius: r}}
}

func TestComputeOutbound(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	bounds := (geom.Region{Size: 100}).Aabb()

	interior := w.Insert(ball(1), object.Warm{Position: geom.Vec3{X: 50, Y: 50, Z: 50}})
	boundary := w.Insert(ball(2), object.Warm{Position: geom.Vec3{X: 99, Y: 50, Z: 50}})
	shadow := w.Insert(ball(1), object.Warm{Position: geom.Vec3{X: 1, Y: 50, Z: 50}})

	interiorID, boundaryID, shadowID := uuid.New(), uuid.New(), uuid.New()
	body2uuid := map[engine.Handle]uuid.UUID{interior: interiorID, boundary: boundaryID, shadow: shadowID}
	watched := map[engine.Handle]Entry{shadow: {UUID: shadowID, Iteration: 1}}

	out := ComputeOutbound(w, bounds, watched, body2uuid, 42)
	if len(out) != 1 {
		t.Fatalf("got %d outbound records, want 1: %v", len(out), out)
	}
	if out[0].UUID != boundaryID {
		t.Fatalf("wrong body advertised: %v", out[0].UUID)
	}
	if out[0].Warm.Timestamp != 42 {
		t.Fatalf("timestamp = %d", out[0].Warm.Timestamp)
	}
}

func TestComputeOutboundExcludesShadows(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	bounds := (geom.Region{Size: 100}).Aabb()

	// A shadow sitting right on the boundary must not be re-advertised:
	// it belongs to another region's bookkeeping.
	shadow := w.Insert(ball(2), object.Warm{Position: geom.Vec3{X: 99, Y: 50, Z: 50}})
	id := uuid.New()
	watched := map[engine.Handle]Entry{shadow: {UUID: id, Iteration: 1}}
	body2uuid := map[engine.Handle]uuid.UUID{shadow: id}

	if out := ComputeOutbound(w, bounds, watched, body2uuid, 1); len(out) != 0 {
		t.Fatalf("shadow advertised: %v", out)
	}
}

func TestStale(t *testing.T) {
	a, b := engine.Handle(1), engine.Handle(2)
	watched := map[engine.Handle]Entry{
		a: {UUID: uuid.New(), Iteration: 10},
		b: {UUID: uuid.New(), Iteration: 6},
	}

	stale := Stale(watched, 10, 3)
	if len(stale) != 1 || stale[0] != b {
		t.Fatalf("Stale = %v, want [%v]", stale, b)
	}

	// Refreshed every iteration: never stale.
	watched[b] = Entry{UUID: watched[b].UUID, Iteration: 10}
	if stale := Stale(watched, 10, 3); len(stale) != 0 {
		t.Fatalf("fresh entries reported stale: %v", stale)
	}
}

func TestInRange(t *testing.T) {
	bounds := (geom.Region{Size: 100}).Aabb()
	if !InRange(bounds, geom.Vec3{X: 100.5, Y: 50, Z: 50}, 1.1) {
		t.Fatalf("nearby body should be in range")
	}
	if InRange(bounds, geom.Vec3{X: 110, Y: 50, Z: 50}, 1.1) {
		t.Fatalf("distant body should be out of range")
	}
}
