package event

import (
	"encoding/json"
	"fmt"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

// SessionsListedData is the data for sessions.listed events: the full
// session list for one project, delivered on subscribe.
type SessionsListedData struct {
	ProjectID string          `json:"projectID"`
	Sessions  []types.Session `json:"sessions"`
}

// SessionUpdatedData is the data for session.updated events.
// Uses "info" for the session object, matching the server SDK shape.
type SessionUpdatedData struct {
	Info *types.Session `json:"info"`
}

// SessionDeletedData is the data for session.deleted events.
type SessionDeletedData struct {
	SessionID string `json:"sessionID"`
}

// SessionStatusData is the data for session.status events.
type SessionStatusData struct {
	SessionID string              `json:"sessionID"`
	Status    types.SessionStatus `json:"status"`
}

// MessageCreatedData is the data for message.created events.
type MessageCreatedData struct {
	Info *types.Message `json:"info"`
}

// MessageUpdatedData is the data for message.updated events.
type MessageUpdatedData struct {
	Info *types.Message `json:"info"`
}

// PartCreatedData is the data for part.created events.
type PartCreatedData struct {
	Part types.Part `json:"part"`
}

// PartUpdatedData is the data for part.updated events.
type PartUpdatedData struct {
	Part types.Part `json:"part"`
}

// DecodeEventData decodes a raw JSON payload into the typed data struct for
// the given event type. Part payloads go through the part union decoder.
func DecodeEventData(eventType EventType, data []byte) (any, error) {
	switch eventType {
	case SessionsListed:
		var d SessionsListedData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case SessionUpdated:
		var d SessionUpdatedData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case SessionDeleted:
		var d SessionDeletedData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case SessionStatus:
		var d SessionStatusData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case MessageCreated:
		var d MessageCreatedData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case MessageUpdated:
		var d MessageUpdatedData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return d, nil
	case PartCreated:
		part, err := decodePartPayload(data)
		if err != nil {
			return nil, err
		}
		return PartCreatedData{Part: part}, nil
	case PartUpdated:
		part, err := decodePartPayload(data)
		if err != nil {
			return nil, err
		}
		return PartUpdatedData{Part: part}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func decodePartPayload(data []byte) (types.Part, error) {
	var raw struct {
		Part json.RawMessage `json:"part"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return types.UnmarshalPart(raw.Part)
}
