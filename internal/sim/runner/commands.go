package runner

import (
	"physgrid.dev/internal/protocol"
	"physgrid.dev/internal/sim/object"
	"physgrid.dev/internal/sim/watch"
	"physgrid.dev/internal/transport/bus"
)

// handleRaw decodes and applies one inbound command. Malformed payloads
// are logged and skipped; they must never take the loop down. The return
// value is true when draining must stop for this tick (RUN_STEPS arrived:
// everything behind it applies at the next tick boundary, so a body is
// never mutated after it has already been integrated this step).
func (r *Runner) handleRaw(raw []byte) bool {
	cmd, err := protocol.DecodeCommand(raw)
	if err != nil {
		r.log.Printf("skipping command: %v", err)
		return false
	}
	return r.processCommand(cmd)
}

func (r *Runner) processCommand(cmd any) bool {
	switch m := cmd.(type) {
	case *protocol.AssignRegionMsg:
		r.applyAssignRegion(m)
	case *protocol.RunStepsMsg:
		r.state.StepID = m.CurrStep
		r.stepsToRun = m.NumSteps
		r.refreshWatchList()
		return true
	case *protocol.AssignIslandMsg:
		r.assignIsland(m)
	case *protocol.MoveObjectMsg:
		if h, ok := r.state.UUID2Body[m.UUID]; ok {
			r.state.World.Teleport(h, m.Position)
		} else {
			r.log.Printf("%s: move for unknown body %s", protocol.ErrUnknownObject, m.UUID)
		}
	case *protocol.UpdateColdObjectMsg:
		r.updateColdObject(m)
	case *protocol.StartStopMsg:
		r.state.Running = m.Running
	}
	return false
}

func (r *Runner) applyAssignRegion(m *protocol.AssignRegionMsg) {
	if r.bus != nil {
		if r.state.Assigned {
			_ = r.bus.Unsubscribe(bus.RegionTopic(r.state.Region.Key()))
		}
		ch, err := r.bus.Subscribe(bus.RegionTopic(m.Region.Key()))
		if err != nil {
			r.log.Printf("subscribe region %s: %v", m.Region.Key(), err)
		} else {
			r.regionCmds = ch
		}
	}

	r.state.Region = m.Region
	r.state.Assigned = true
	r.state.StepID = m.TimeOrigin
	// A reassignment cancels the previous region's pending steps; they
	// must not be re-applied against the new bounds.
	r.stepsToRun = 0
}

// assignIsland bulk-loads bodies and their joints into local ownership.
// Concurrent assignments for the same identity resolve as last writer
// replaces: any existing body with the same uuid is fully torn down first.
func (r *Runner) assignIsland(m *protocol.AssignIslandMsg) {
	for _, data := range m.Bodies {
		if h, ok := r.state.UUID2Body[data.UUID]; ok {
			r.state.removeBody(h)
		}
		r.state.insertBody(data.UUID, data.Cold, data.Warm)

		if r.store != nil {
			if err := r.store.PutColdBody(data.UUID, data.Cold); err != nil {
				r.log.Printf("persist cold %s: %v", data.UUID, err)
			}
		}
	}

	for _, j := range m.ImpulseJoints {
		h1, ok1 := r.state.UUID2Body[j.Body1]
		h2, ok2 := r.state.UUID2Body[j.Body2]
		if !ok1 || !ok2 {
			// Dropping, on the assumption that joint-defining messages
			// arrive with or after their endpoint bodies. If that ordering
			// ever breaks this loses a constraint, hence the log line.
			r.log.Printf("dropping joint %s-%s: endpoint not local", j.Body1, j.Body2)
			continue
		}
		r.state.World.InsertJoint(h1, h2, j.Joint)
	}
}

// updateColdObject re-reads the authoritative cold record and applies it.
// A body that stops being dynamic is broadcast to the partitioner so every
// region its volume intersects can shadow it.
func (r *Runner) updateColdObject(m *protocol.UpdateColdObjectMsg) {
	if r.store == nil {
		return
	}
	cold, ok, err := r.store.GetColdBody(m.UUID)
	if err != nil {
		r.log.Printf("read cold %s: %v", m.UUID, err)
		return
	}
	if !ok {
		r.log.Printf("%s: no cold record for %s", protocol.ErrUnknownObject, m.UUID)
		return
	}
	h, ok := r.state.UUID2Body[m.UUID]
	if !ok {
		return
	}

	if cold.BodyType == object.Fixed && r.state.World.BodyType(h) == object.Dynamic {
		warm, _ := r.state.World.Warm(h, r.state.StepID)
		r.publish(bus.PartitionerTopic, protocol.ReassignObjectMsg{
			Type:    protocol.TypeReassignObject,
			UUID:    m.UUID,
			Origin:  bus.RunnerTopic(r.id),
			Aabb:    r.state.World.Aabb(h),
			Warm:    warm,
			Dynamic: false,
		})
	}

	r.state.World.SetBodyType(h, cold.BodyType)
	r.state.ColdCache[m.UUID] = cold
	if cold.Animations.HasAny() {
		r.state.Animations[h] = cold.Animations
	} else {
		delete(r.state.Animations, h)
	}
}

// refreshWatchList reconciles shadow records against what neighbors
// currently advertise in the store. Called once per RUN_STEPS, before the
// batch starts.
func (r *Runner) refreshWatchList() {
	r.watchIteration++
	if r.store == nil || !r.state.Assigned {
		return
	}

	bounds := r.state.Region.Aabb()
	for _, nb := range r.state.Region.Neighbors() {
		set, ok, err := r.store.GetWatchSet(nb.Key())
		if err != nil {
			r.log.Printf("read watch set %s: %v", nb.Key(), err)
			continue
		}
		if !ok {
			continue
		}

		for _, rec := range set.Objects {
			if h, local := r.state.UUID2Body[rec.UUID]; local {
				if _, shadow := r.state.Watched[h]; shadow {
					r.state.World.SetWarm(h, rec.Warm)
					r.state.Watched[h] = watch.Entry{UUID: rec.UUID, Iteration: r.watchIteration}
				}
				// Locally owned: ownership wins over a stale advertisement.
				continue
			}

			cold, ok, err := r.store.GetColdBody(rec.UUID)
			if err != nil || !ok {
				r.log.Printf("skipping watched %s: no cold record", rec.UUID)
				continue
			}
			proxy := cold.Shape.BoundingRadius() * r.tune.WatchMargin
			if !watch.InRange(bounds, rec.Warm.Position, proxy) {
				continue
			}
			h := r.state.insertBody(rec.UUID, cold, rec.Warm)
			r.state.Watched[h] = watch.Entry{UUID: rec.UUID, Iteration: r.watchIteration}
		}
	}

	for _, h := range watch.Stale(r.state.Watched, r.watchIteration, r.tune.WatchStaleIterations) {
		r.state.removeBody(h)
	}
}
