// Package types provides the shared data types for the opencode client
// state layer: sessions, messages, message parts and session status as
// delivered by the server's event stream.
package types

import (
	"encoding/json"
	"fmt"
)

// Session represents one conversation thread with the assistant.
type Session struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"projectID"`
	Title     string      `json:"title,omitempty"`
	Time      SessionTime `json:"time"`
}

// SessionTime contains timestamps for a session.
type SessionTime struct {
	Created int64  `json:"created"`
	Updated *int64 `json:"updated,omitempty"`
}

// StatusKind discriminates the SessionStatus union.
type StatusKind string

const (
	StatusIdleKind  StatusKind = "idle"
	StatusBusyKind  StatusKind = "busy"
	StatusRetryKind StatusKind = "retry"
)

// SessionStatus reports whether the remote agent is currently working on a
// session. It is independent of message content: a session can hold errored
// messages and still be idle.
type SessionStatus struct {
	Kind StatusKind
	// Attempt is meaningful only for the retry kind.
	Attempt int
}

// StatusIdle returns the idle status.
func StatusIdle() SessionStatus { return SessionStatus{Kind: StatusIdleKind} }

// StatusBusy returns the busy status.
func StatusBusy() SessionStatus { return SessionStatus{Kind: StatusBusyKind} }

// StatusRetry returns a retry status with the given attempt number.
func StatusRetry(attempt int) SessionStatus {
	return SessionStatus{Kind: StatusRetryKind, Attempt: attempt}
}

type statusWire struct {
	Type    StatusKind `json:"type"`
	Attempt *int       `json:"attempt,omitempty"`
}

// MarshalJSON encodes the status as a tagged union:
// {"type":"idle"} | {"type":"busy"} | {"type":"retry","attempt":n}.
func (s SessionStatus) MarshalJSON() ([]byte, error) {
	w := statusWire{Type: s.Kind}
	if s.Kind == StatusRetryKind {
		attempt := s.Attempt
		w.Attempt = &attempt
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the tagged union, rejecting unknown kinds.
func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var w statusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case StatusIdleKind, StatusBusyKind:
		*s = SessionStatus{Kind: w.Type}
	case StatusRetryKind:
		attempt := 0
		if w.Attempt != nil {
			attempt = *w.Attempt
		}
		*s = SessionStatus{Kind: StatusRetryKind, Attempt: attempt}
	default:
		return fmt.Errorf("unknown session status %q", w.Type)
	}
	return nil
}
