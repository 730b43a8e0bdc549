package geom

import "testing"

func TestRegionContaining_HalfOpenBounds(t *testing.T) {
	size := 100.0

	cases := []struct {
		p    Vec3
		want Region
	}{
		{Vec3{0, 0, 0}, Region{0, 0, 0, size}},
		{Vec3{99.999, 0, 0}, Region{0, 0, 0, size}},
		// A point exactly on the shared face belongs to the higher cell.
		{Vec3{100, 0, 0}, Region{1, 0, 0, size}},
		{Vec3{-0.001, 0, 0}, Region{-1, 0, 0, size}},
		{Vec3{150, -20, 250}, Region{1, -1, 2, size}},
	}
	for _, c := range cases {
		if got := RegionContaining(c.p, size); got != c.want {
			t.Errorf("RegionContaining(%v) = %+v, want %+v", c.p, got, c.want)
		}
	}
}

func TestRegionAabbMatchesContainment(t *testing.T) {
	r := Region{IX: 1, IY: -1, IZ: 0, Size: 50}
	bounds := r.Aabb()

	inside := Vec3{50, -50, 0}
	if !bounds.Contains(inside) {
		t.Fatalf("min corner should be inside")
	}
	if bounds.Contains(Vec3{100, -50, 0}) {
		t.Fatalf("max face should be outside")
	}
	if RegionContaining(inside, 50) != r {
		t.Fatalf("containment disagrees with RegionContaining")
	}
}

func TestRegionKeyStable(t *testing.T) {
	r := Region{IX: -2, IY: 0, IZ: 7, Size: 100}
	if got := r.Key(); got != "region_-2_0_7" {
		t.Fatalf("Key() = %q", got)
	}
}

func TestRegionNeighbors(t *testing.T) {
	r := Region{Size: 100}
	nbs := r.Neighbors()
	if len(nbs) != 26 {
		t.Fatalf("got %d neighbors, want 26", len(nbs))
	}
	seen := map[string]bool{}
	for _, nb := range nbs {
		if nb == r {
			t.Fatalf("region is its own neighbor")
		}
		if seen[nb.Key()] {
			t.Fatalf("duplicate neighbor %s", nb.Key())
		}
		seen[nb.Key()] = true
	}
}

func TestAabbSphereQueries(t *testing.T) {
	a := Aabb{Min: Vec3{0, 0, 0}, Max: Vec3{10, 10, 10}}

	if !a.ContainsSphere(Vec3{5, 5, 5}, 4) {
		t.Fatalf("interior sphere should be contained")
	}
	if a.ContainsSphere(Vec3{5, 5, 5}, 6) {
		t.Fatalf("oversized sphere should not be contained")
	}
	if !a.IntersectsSphere(Vec3{12, 5, 5}, 3) {
		t.Fatalf("overlapping sphere should intersect")
	}
	if a.IntersectsSphere(Vec3{20, 5, 5}, 3) {
		t.Fatalf("distant sphere should not intersect")
	}
}
