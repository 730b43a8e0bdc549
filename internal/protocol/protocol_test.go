package protocol

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/object"
)

func TestDecodeCommandVariants(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`{"type":"ASSIGN_REGION","region":{"ix":1,"iy":0,"iz":-1,"size":100},"time_origin":7}`, TypeAssignRegion},
		{`{"type":"RUN_STEPS","curr_step":100,"num_steps":5}`, TypeRunSteps},
		{`{"type":"ASSIGN_ISLAND","bodies":[],"impulse_joints":[]}`, TypeAssignIsland},
		{`{"type":"MOVE_OBJECT","uuid":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","position":{"x":1,"y":2,"z":3}}`, TypeMoveObject},
		{`{"type":"UPDATE_COLD_OBJECT","uuid":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}`, TypeUpdateColdObject},
		{`{"type":"START_STOP","running":true}`, TypeStartStop},
	}

	for _, c := range cases {
		cmd, err := DecodeCommand([]byte(c.raw))
		if err != nil {
			t.Fatalf("%s: %v", c.want, err)
		}
		switch m := cmd.(type) {
		case *AssignRegionMsg:
			if c.want != TypeAssignRegion {
				t.Fatalf("decoded %T for %s", m, c.want)
			}
			if m.Region != (geom.Region{IX: 1, IY: 0, IZ: -1, Size: 100}) || m.TimeOrigin != 7 {
				t.Fatalf("AssignRegion fields: %+v", m)
			}
		case *RunStepsMsg:
			if m.CurrStep != 100 || m.NumSteps != 5 {
				t.Fatalf("RunSteps fields: %+v", m)
			}
		case *AssignIslandMsg, *MoveObjectMsg, *UpdateColdObjectMsg, *StartStopMsg:
		default:
			t.Fatalf("unexpected decode type %T", m)
		}
	}
}

func TestDecodeCommandMalformed(t *testing.T) {
	if _, err := DecodeCommand([]byte(`{not json`)); err == nil {
		t.Fatalf("malformed payload decoded")
	} else if !strings.Contains(err.Error(), ErrProtoBadRequest) {
		t.Fatalf("error missing code: %v", err)
	}

	if _, err := DecodeCommand([]byte(`{"type":"RUN_STEPS","curr_step":"x"}`)); err == nil {
		t.Fatalf("mistyped field decoded")
	}
}

func TestDecodeCommandUnknownType(t *testing.T) {
	_, err := DecodeCommand([]byte(`{"type":"SELF_DESTRUCT"}`))
	if err == nil || !strings.Contains(err.Error(), ErrUnknownType) {
		t.Fatalf("unknown type not rejected: %v", err)
	}
}

func TestEncodeDecodeAssignIsland(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	msg := AssignIslandMsg{
		Type: TypeAssignIsland,
		Bodies: []BodyAssignment{{
			UUID: id1,
			Cold: object.Cold{BodyType: object.Dynamic, Shape: object.Shape{Kind: object.ShapeBall, Radius: 2}},
			Warm: object.Warm{Position: geom.Vec3{X: 1}, Timestamp: 9},
		}},
		ImpulseJoints: []JointAssignment{{Body1: id1, Body2: id2, Joint: object.Joint{Kind: "ball"}}},
	}

	raw, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cmd, err := DecodeCommand(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := cmd.(*AssignIslandMsg)
	if !ok {
		t.Fatalf("decoded %T", cmd)
	}
	if len(got.Bodies) != 1 || got.Bodies[0].UUID != id1 || got.Bodies[0].Warm.Timestamp != 9 {
		t.Fatalf("bodies roundtrip: %+v", got.Bodies)
	}
	if len(got.ImpulseJoints) != 1 || got.ImpulseJoints[0].Body2 != id2 {
		t.Fatalf("joints roundtrip: %+v", got.ImpulseJoints)
	}
}

func TestIsKnownCode(t *testing.T) {
	if !IsKnownCode(ErrPersist) || !IsKnownCode("") {
		t.Fatalf("known codes rejected")
	}
	if IsKnownCode("E_NOPE") {
		t.Fatalf("unknown code accepted")
	}
}
