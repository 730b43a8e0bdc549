package runner

import (
	"github.com/google/uuid"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/kinematics"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/object"
	"physgrid.dev/internal/sim/watch"
)

// State is the mutable simulation state for one region. It is owned by
// the coordination loop and threaded explicitly through every operation;
// nothing in this package reads it through a global.
type State struct {
	StepID  uint64
	Running bool
	World   engine.World

	// Dual identity maps, kept in lockstep by insertBody/removeBody.
	// Never derive one from the other.
	Body2UUID map[engine.Handle]uuid.UUID
	UUID2Body map[uuid.UUID]engine.Handle

	Animations map[engine.Handle]kinematics.Animations

	// ColdCache holds the cold record of every local body so a migrating
	// component can carry cold+warm data without a store round-trip.
	ColdCache map[uuid.UUID]object.Cold

	// Watched marks bodies shadowed on behalf of a neighboring region.
	Watched map[engine.Handle]watch.Entry

	Region   geom.Region
	Assigned bool
}

func NewState(w engine.World) *State {
	return &State{
		World:      w,
		Body2UUID:  map[engine.Handle]uuid.UUID{},
		UUID2Body:  map[uuid.UUID]engine.Handle{},
		Animations: map[engine.Handle]kinematics.Animations{},
		ColdCache:  map[uuid.UUID]object.Cold{},
		Watched:    map[engine.Handle]watch.Entry{},
	}
}

func (s *State) insertBody(id uuid.UUID, cold object.Cold, warm object.Warm) engine.Handle {
	h := s.World.Insert(cold, warm)
	s.Body2UUID[h] = id
	s.UUID2Body[id] = h
	if cold.Animations.HasAny() {
		s.Animations[h] = cold.Animations
	}
	s.ColdCache[id] = cold
	return h
}

// removeBody tears down the body, its colliders and joints, and every map
// entry referencing it. Safe to call for both owned and watched bodies.
func (s *State) removeBody(h engine.Handle) {
	s.World.Remove(h)
	if id, ok := s.Body2UUID[h]; ok {
		delete(s.UUID2Body, id)
		delete(s.ColdCache, id)
	}
	delete(s.Body2UUID, h)
	delete(s.Animations, h)
	delete(s.Watched, h)
}

// ownedHandles lists local bodies excluding shadows, in handle order.
func (s *State) ownedHandles() []engine.Handle {
	var out []engine.Handle
	for _, h := range s.World.Handles() {
		if _, shadow := s.Watched[h]; shadow {
			continue
		}
		out = append(out, h)
	}
	return out
}

// ownedEdges are the contact and joint links between owned bodies; edges
// touching a watched body are excluded so shadows never pull an owned
// cluster into a migration.
func (s *State) ownedEdges() [][2]engine.Handle {
	owned := func(h engine.Handle) bool {
		_, shadow := s.Watched[h]
		_, known := s.Body2UUID[h]
		return known && !shadow
	}

	var out [][2]engine.Handle
	for _, p := range s.World.ContactPairs() {
		if owned(p[0]) && owned(p[1]) {
			out = append(out, p)
		}
	}
	for _, j := range s.World.Joints() {
		if owned(j.A) && owned(j.B) {
			out = append(out, [2]engine.Handle{j.A, j.B})
		}
	}
	return out
}
