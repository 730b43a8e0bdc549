// Package watch tracks bodies visible across a region boundary without
// transferring ownership.
package watch

import (
	"github.com/google/uuid"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/object"
)

// Entry is the local bookkeeping for one shadowed body. Iteration is the
// watch-refresh iteration that last confirmed the record; entries that
// miss too many refreshes are expired.
type Entry struct {
	UUID      uuid.UUID
	Iteration uint64
}

// ComputeOutbound packages owned bodies whose watch proxy pokes outside
// the region bounds, so neighbors can shadow them. Bodies that are
// themselves shadows are excluded: they belong to another region's
// bookkeeping and reporting them here would double-count the object.
func ComputeOutbound(w engine.World, bounds geom.Aabb, watched map[engine.Handle]Entry, body2uuid map[engine.Handle]uuid.UUID, stepID uint64) []object.Watched {
	var out []object.Watched
	for _, h := range w.Handles() {
		if _, shadow := watched[h]; shadow {
			continue
		}
		center, _ := w.BoundingSphere(h)
		if bounds.ContainsSphere(center, w.WatchRadius(h)) {
			continue
		}
		id, ok := body2uuid[h]
		if !ok {
			continue
		}
		warm, ok := w.Warm(h, stepID)
		if !ok {
			continue
		}
		out = append(out, object.Watched{UUID: id, Warm: warm})
	}
	return out
}

// InRange reports whether a neighbor's advertised body, with the given
// proxy radius, is visible from a region with the given bounds.
func InRange(bounds geom.Aabb, pos geom.Vec3, proxyRadius float64) bool {
	return bounds.IntersectsSphere(pos, proxyRadius)
}

// Stale returns the handles of entries not refreshed within window
// iterations. An entry refreshed on every iteration never appears here.
func Stale(watched map[engine.Handle]Entry, iteration, window uint64) []engine.Handle {
	var out []engine.Handle
	for h, e := range watched {
		if iteration-e.Iteration > window {
			out = append(out, h)
		}
	}
	return out
}
