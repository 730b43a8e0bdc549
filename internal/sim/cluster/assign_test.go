package cluster

import (
	"reflect"
	"testing"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/object"
)

func ball(r float64, bt object.BodyType) object.Cold {
	return object.Cold{BodyType: bt, Shape: object.Shape{Kind: object.ShapeBall, Radius: r}}
}

func warmAt(x, y, z float64) object.Warm {
	return object.Warm{Position: geom.Vec3{X: x, Y: y, Z: z}}
}

func TestCentroidDeciderKeepsContainedComponent(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	current := geom.Region{Size: 100}
	h := w.Insert(ball(1, object.Dynamic), warmAt(50, 50, 50))

	got := CentroidDecider{}.Assignments(w, current, [][]engine.Handle{{h}})
	if len(got) != 0 {
		t.Fatalf("contained component generated assignment: %v", got)
	}
}

func TestCentroidDeciderMigratesCrossedComponent(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	current := geom.Region{Size: 100}
	a := w.Insert(ball(1, object.Dynamic), warmAt(150, 10, 10))
	b := w.Insert(ball(1, object.Dynamic), warmAt(151, 10, 10))

	got := CentroidDecider{}.Assignments(w, current, [][]engine.Handle{{a, b}})
	if len(got) != 1 {
		t.Fatalf("got %d assignments, want 1", len(got))
	}
	if got[0].Target != (geom.Region{IX: 1, Size: 100}) {
		t.Fatalf("target = %+v", got[0].Target)
	}
	if !reflect.DeepEqual(got[0].Bodies, []engine.Handle{a, b}) {
		t.Fatalf("component split: %v", got[0].Bodies)
	}
}

func TestCentroidDeciderStraddlingCentroidStays(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	current := geom.Region{Size: 100}
	// Pokes out of the region but the centroid is still inside.
	h := w.Insert(ball(5, object.Dynamic), warmAt(98, 50, 50))

	got := CentroidDecider{}.Assignments(w, current, [][]engine.Handle{{h}})
	if len(got) != 0 {
		t.Fatalf("centroid-inside component migrated: %v", got)
	}
}

func TestCentroidDeciderFixedNeverMigrates(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	current := geom.Region{Size: 100}
	a := w.Insert(ball(1, object.Fixed), warmAt(150, 0, 0))
	b := w.Insert(ball(1, object.Dynamic), warmAt(151, 0, 0))

	got := CentroidDecider{}.Assignments(w, current, [][]engine.Handle{{a, b}})
	if len(got) != 0 {
		t.Fatalf("component with fixed body migrated: %v", got)
	}
}

func TestCentroidDeciderIdempotentWithinTick(t *testing.T) {
	w := engine.NewBasic(0.1, 0, 1.1)
	current := geom.Region{Size: 100}
	a := w.Insert(ball(1, object.Dynamic), warmAt(-20, 0, 0))
	comps := [][]engine.Handle{{a}}

	first := CentroidDecider{}.Assignments(w, current, comps)
	second := CentroidDecider{}.Assignments(w, current, comps)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("decision not idempotent: %v vs %v", first, second)
	}
	if len(first) != 1 || first[0].Target != (geom.Region{IX: -1, Size: 100}) {
		t.Fatalf("assignments = %v", first)
	}
}
