// Package protocol defines the JSON wire messages exchanged between
// runners, the partitioner, and client tooling.
package protocol

import (
	"encoding/json"
	"fmt"
)

const Version = "1.0"

// Message types.
const (
	TypeAssignRegion     = "ASSIGN_REGION"
	TypeRunSteps         = "RUN_STEPS"
	TypeAssignIsland     = "ASSIGN_ISLAND"
	TypeMoveObject       = "MOVE_OBJECT"
	TypeUpdateColdObject = "UPDATE_COLD_OBJECT"
	TypeStartStop        = "START_STOP"
	TypeRegisterRunner   = "REGISTER_RUNNER"
	TypeAckSteps         = "ACK_STEPS"
	TypeReassignObject   = "REASSIGN_OBJECT"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// DecodeCommand parses one inbound runner command into its typed form.
// A decode failure is returned to the caller, never panicked on: a
// malformed message must not take down an otherwise-healthy region owner.
func DecodeCommand(b []byte) (any, error) {
	base, err := DecodeBase(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrProtoBadRequest, err)
	}

	decode := func(v any) (any, error) {
		if err := json.Unmarshal(b, v); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", ErrProtoBadRequest, base.Type, err)
		}
		return v, nil
	}

	switch base.Type {
	case TypeAssignRegion:
		return decode(&AssignRegionMsg{})
	case TypeRunSteps:
		return decode(&RunStepsMsg{})
	case TypeAssignIsland:
		return decode(&AssignIslandMsg{})
	case TypeMoveObject:
		return decode(&MoveObjectMsg{})
	case TypeUpdateColdObject:
		return decode(&UpdateColdObjectMsg{})
	case TypeStartStop:
		return decode(&StartStopMsg{})
	default:
		return nil, fmt.Errorf("%s: %q", ErrUnknownType, base.Type)
	}
}

// Encode marshals an outbound message.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInternal, err)
	}
	return b, nil
}
