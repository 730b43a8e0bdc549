package cluster

import (
	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/object"
)

// Assignment moves one whole component to a destination region.
// Components migrate atomically, never body by body, so a physically
// coupled group is never split across two regions mid-interaction.
type Assignment struct {
	Bodies []engine.Handle
	Target geom.Region
}

// Decider maps components to destination regions. It must be read-only
// over the world: calling it twice without an intervening physics step
// yields identical assignments.
type Decider interface {
	Assignments(w engine.World, current geom.Region, comps [][]engine.Handle) []Assignment
}

// CentroidDecider keeps a component in place while its aggregate bounding
// volume fits the current region. Once it stops fitting, the whole
// component goes to the region containing its centroid (the mean of body
// centers); half-open region bounds make that choice deterministic even
// for a centroid exactly on a boundary. Components containing a fixed
// body never migrate.
type CentroidDecider struct{}

func (CentroidDecider) Assignments(w engine.World, current geom.Region, comps [][]engine.Handle) []Assignment {
	var out []Assignment
	bounds := current.Aabb()

	for _, comp := range comps {
		if len(comp) == 0 {
			continue
		}

		fixed := false
		var volume geom.Aabb
		var centroid geom.Vec3
		for i, h := range comp {
			if w.BodyType(h) == object.Fixed {
				fixed = true
				break
			}
			c, r := w.BoundingSphere(h)
			aabb := geom.AabbFromSphere(c, r)
			if i == 0 {
				volume = aabb
			} else {
				volume = volume.Union(aabb)
			}
			centroid = centroid.Add(c)
		}
		if fixed {
			continue
		}
		if bounds.ContainsAabb(volume) {
			continue
		}

		centroid = centroid.Scale(1 / float64(len(comp)))
		target := geom.RegionContaining(centroid, current.Size)
		if target == current {
			// Straddling the boundary but still centered here: keep it.
			continue
		}
		out = append(out, Assignment{Bodies: comp, Target: target})
	}
	return out
}
