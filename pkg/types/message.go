package types

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one turn in a session.
//
// User messages are immutable once created. Assistant messages start
// incomplete (no Time.Completed, no Error) and reach exactly one terminal
// outcome: completed (Time.Completed set) or errored (Error set). Incoming
// message.updated events replace the whole object by id.
type Message struct {
	ID        string        `json:"id"`
	SessionID string        `json:"sessionID"`
	Role      Role          `json:"role"`
	Time      MessageTime   `json:"time"`
	Error     *MessageError `json:"error,omitempty"`
}

// MessageTime contains timestamps for a message.
type MessageTime struct {
	Created   int64  `json:"created"`
	Completed *int64 `json:"completed,omitempty"`
}

// MessageError represents an error that terminated message processing.
// Format: {"name": "UnknownError", "data": {"message": "..."}}
type MessageError struct {
	Name string           `json:"name"`
	Data MessageErrorData `json:"data"`
}

// MessageErrorData contains the error details. Message is declared as any
// because some providers emit non-string payloads here; readers coerce it.
type MessageErrorData struct {
	Message any `json:"message,omitempty"`
}

// NewUnknownError creates a generic message error.
func NewUnknownError(message string) *MessageError {
	return &MessageError{
		Name: "UnknownError",
		Data: MessageErrorData{Message: message},
	}
}
