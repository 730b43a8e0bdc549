// Package object defines the cold/warm body records exchanged between
// runners and persisted per region.
//
// Cold data changes rarely (shape, body type, scripted motion); its
// authoritative copy lives in the key-value store and travels with
// migrations. Warm data changes every tick and is only written back in
// per-batch snapshots. The UUID is the join key between the two halves
// and is immutable for the lifetime of a body.
package object

import (
	"github.com/google/uuid"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/kinematics"
)

type BodyType string

const (
	Dynamic   BodyType = "dynamic"
	Fixed     BodyType = "fixed"
	Kinematic BodyType = "kinematic"
)

const (
	ShapeBall   = "ball"
	ShapeCuboid = "cuboid"
)

type Shape struct {
	Kind        string    `json:"kind"`
	Radius      float64   `json:"radius,omitempty"`
	HalfExtents geom.Vec3 `json:"half_extents,omitempty"`
}

// BoundingRadius is the radius of the smallest sphere enclosing the shape,
// centered at the body origin.
func (s Shape) BoundingRadius() float64 {
	switch s.Kind {
	case ShapeCuboid:
		return s.HalfExtents.Length()
	default:
		return s.Radius
	}
}

type Cold struct {
	BodyType    BodyType              `json:"body_type"`
	Shape       Shape                 `json:"shape"`
	Density     float64               `json:"density,omitempty"`
	Friction    float64               `json:"friction,omitempty"`
	Restitution float64               `json:"restitution,omitempty"`
	Animations  kinematics.Animations `json:"animations,omitempty"`
}

type Warm struct {
	Position  geom.Vec3 `json:"position"`
	LinVel    geom.Vec3 `json:"linvel"`
	AngVel    geom.Vec3 `json:"angvel"`
	Timestamp uint64    `json:"timestamp"`
}

// Joint links two bodies. Endpoints are identified by UUID on the wire and
// resolved to engine handles on insertion.
type Joint struct {
	Kind    string    `json:"kind"`
	Anchor1 geom.Vec3 `json:"anchor1,omitempty"`
	Anchor2 geom.Vec3 `json:"anchor2,omitempty"`
}

// PositionRecord is one entry of a per-batch warm snapshot.
type PositionRecord struct {
	UUID      uuid.UUID `json:"uuid"`
	Timestamp uint64    `json:"timestamp"`
	Position  geom.Vec3 `json:"position"`
}

// WarmSet is the per-region warm snapshot, written once per completed
// batch. Last writer wins; Timestamp is the step id of the write.
type WarmSet struct {
	Timestamp uint64           `json:"timestamp"`
	Objects   []PositionRecord `json:"objects"`
}

// Watched is a body advertised to neighboring regions because its watch
// proxy crosses the owner's boundary.
type Watched struct {
	UUID uuid.UUID `json:"uuid"`
	Warm Warm      `json:"warm"`
}

// WatchSet is the per-region watch advertisement, written alongside the
// warm snapshot.
type WatchSet struct {
	Objects []Watched `json:"objects"`
}
