package protocol

import (
	"github.com/google/uuid"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/object"
)

// ASSIGN_REGION (partitioner -> runner): take ownership of a region and
// restart the logical clock at time_origin. Valid in any state; mid-batch
// it cancels the remaining pending steps.
type AssignRegionMsg struct {
	Type       string      `json:"type"`
	Region     geom.Region `json:"region"`
	TimeOrigin uint64      `json:"time_origin"`
}

// RUN_STEPS (partitioner -> runner): advance num_steps ticks starting
// logically at curr_step. Commands arriving after this one apply only at
// the next tick boundary, never mid-batch.
type RunStepsMsg struct {
	Type     string `json:"type"`
	CurrStep uint64 `json:"curr_step"`
	NumSteps uint32 `json:"num_steps"`
}

type BodyAssignment struct {
	UUID uuid.UUID   `json:"uuid"`
	Cold object.Cold `json:"cold"`
	Warm object.Warm `json:"warm"`
}

type JointAssignment struct {
	Body1 uuid.UUID    `json:"body1"`
	Body2 uuid.UUID    `json:"body2"`
	Joint object.Joint `json:"joint"`
}

// ASSIGN_ISLAND (partitioner or neighbor runner -> runner): bulk-load a
// set of bodies, and the joints linking them, into local ownership.
// Re-insertion of a known uuid replaces the previous body wholesale.
type AssignIslandMsg struct {
	Type          string            `json:"type"`
	Bodies        []BodyAssignment  `json:"bodies"`
	ImpulseJoints []JointAssignment `json:"impulse_joints"`
}

// MOVE_OBJECT (client tooling -> runner): teleport a body.
type MoveObjectMsg struct {
	Type     string    `json:"type"`
	UUID     uuid.UUID `json:"uuid"`
	Position geom.Vec3 `json:"position"`
}

// UPDATE_COLD_OBJECT (client tooling -> runner): the cold record for uuid
// changed in the store; re-read it and apply.
type UpdateColdObjectMsg struct {
	Type string    `json:"type"`
	UUID uuid.UUID `json:"uuid"`
}

// START_STOP (partitioner -> runner): toggle the batch-stepping phase.
type StartStopMsg struct {
	Type    string `json:"type"`
	Running bool   `json:"running"`
}

// REGISTER_RUNNER (runner -> partitioner): announce availability for
// region assignment. Sent once at startup, before listening for steps.
type RegisterRunnerMsg struct {
	Type   string    `json:"type"`
	Runner uuid.UUID `json:"runner"`
}

// ACK_STEPS (runner -> partitioner): a batch completed. Sent exactly once
// per batch, when the pending step counter reaches zero.
type AckStepsMsg struct {
	Type    string `json:"type"`
	Origin  string `json:"origin"`
	Stopped bool   `json:"stopped"`
}

// REASSIGN_OBJECT (runner -> partitioner): a body stopped being dynamic
// and should be shadowed by every region its volume intersects.
type ReassignObjectMsg struct {
	Type    string      `json:"type"`
	UUID    uuid.UUID   `json:"uuid"`
	Origin  string      `json:"origin"`
	Aabb    geom.Aabb   `json:"aabb"`
	Warm    object.Warm `json:"warm"`
	Dynamic bool        `json:"dynamic"`
}
