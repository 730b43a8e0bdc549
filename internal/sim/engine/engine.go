// Package engine abstracts the physics world behind a capability
// interface so the coordination loop never depends on a concrete solver.
package engine

import (
	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/object"
)

// Handle is an engine-local body identifier. It is only meaningful inside
// one World; the stable cross-process identity is the body UUID.
type Handle uint32

// Collision group bits. The watch proxy lives in WatchGroup and filters
// against MainGroup only: proxies never interact with each other and never
// exert or receive forces. Adapters over real engines must wire these into
// the engine's collision and solver filters.
const (
	MainGroup  uint32 = 1 << 0
	WatchGroup uint32 = 1 << 1
)

// JointRef is an inserted joint and its endpoint handles.
type JointRef struct {
	A, B  Handle
	Joint object.Joint
}

// World is the opaque physics engine. Implementations own all broad/narrow
// phase and solver state; the runner only drives it one timestep at a time
// and queries the results.
type World interface {
	// Step advances the world by exactly one fixed timestep.
	Step()
	Timestep() float64

	// Insert creates a body with its primary collider and a sensor-only
	// watch proxy sized to the shape's bounding-sphere radius times the
	// configured watch margin.
	Insert(cold object.Cold, warm object.Warm) Handle
	// Remove tears down the body, both colliders, and any joint touching it.
	Remove(h Handle)
	// InsertJoint links two existing bodies. Both handles must be live.
	InsertJoint(a, b Handle, j object.Joint)

	SetNextKinematicTarget(h Handle, pos geom.Vec3)
	Teleport(h Handle, pos geom.Vec3)
	SetWarm(h Handle, warm object.Warm)
	SetBodyType(h Handle, bt object.BodyType)

	// Warm snapshots the body's dynamic state, stamping it with timestamp.
	Warm(h Handle, timestamp uint64) (object.Warm, bool)
	BodyType(h Handle) object.BodyType
	BoundingSphere(h Handle) (center geom.Vec3, radius float64)
	WatchRadius(h Handle) float64
	Aabb(h Handle) geom.Aabb

	// Handles returns all live bodies in ascending handle order.
	Handles() []Handle
	// ContactPairs returns active primary-collider contacts, each pair
	// ordered low-high, the list sorted. Watch proxies never appear here.
	ContactPairs() [][2]Handle
	Joints() []JointRef
}
