package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrUnknownType     = "E_UNKNOWN_TYPE"

	// Runner state.
	ErrUnassigned    = "E_UNASSIGNED"
	ErrUnknownObject = "E_UNKNOWN_OBJECT"

	// Infrastructure.
	ErrPersist  = "E_PERSIST"
	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrUnknownType:     {},
	ErrUnassigned:      {},
	ErrUnknownObject:   {},
	ErrPersist:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
