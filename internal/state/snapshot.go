package state

import (
	"encoding/json"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

// Snapshot is a deep copy of the whole cache, suitable for handing to a
// persistence collaborator. Mutating a snapshot never affects the store.
type Snapshot struct {
	Sessions          map[string]types.Session       `json:"sessions"`
	SessionsByProject map[string][]string            `json:"sessionsByProject"`
	Messages          map[string][]types.Message     `json:"messages"`
	Parts             map[string][]types.Part        `json:"parts"`
	Status            map[string]types.SessionStatus `json:"status"`
	CurrentSessionID  string                         `json:"currentSessionID,omitempty"`
}

// Snapshot returns a deep copy of the current cache contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Sessions:          make(map[string]types.Session, len(s.sessions)),
		SessionsByProject: make(map[string][]string, len(s.sessionsByProject)),
		Messages:          make(map[string][]types.Message, len(s.messages)),
		Parts:             make(map[string][]types.Part, len(s.parts)),
		Status:            make(map[string]types.SessionStatus, len(s.status)),
		CurrentSessionID:  s.currentSessionID,
	}

	for id, session := range s.sessions {
		snap.Sessions[id] = session
	}
	for projectID, ids := range s.sessionsByProject {
		out := make([]string, len(ids))
		copy(out, ids)
		snap.SessionsByProject[projectID] = out
	}
	for sessionID, msgs := range s.messages {
		out := make([]types.Message, len(msgs))
		copy(out, msgs)
		snap.Messages[sessionID] = out
	}
	for messageID, parts := range s.parts {
		out := make([]types.Part, len(parts))
		copy(out, parts)
		snap.Parts[messageID] = out
	}
	for id, status := range s.status {
		snap.Status[id] = status
	}

	return snap
}

// Restore replaces the entire cache with the snapshot's contents in one
// atomic transition.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]types.Session, len(snap.Sessions))
	for id, session := range snap.Sessions {
		s.sessions[id] = session
	}
	s.sessionsByProject = make(map[string][]string, len(snap.SessionsByProject))
	for projectID, ids := range snap.SessionsByProject {
		out := make([]string, len(ids))
		copy(out, ids)
		s.sessionsByProject[projectID] = out
	}
	s.messages = make(map[string][]types.Message, len(snap.Messages))
	for sessionID, msgs := range snap.Messages {
		out := make([]types.Message, len(msgs))
		copy(out, msgs)
		s.messages[sessionID] = out
	}
	s.parts = make(map[string][]types.Part, len(snap.Parts))
	for messageID, parts := range snap.Parts {
		out := make([]types.Part, len(parts))
		copy(out, parts)
		s.parts[messageID] = out
	}
	s.status = make(map[string]types.SessionStatus, len(snap.Status))
	for id, status := range snap.Status {
		s.status[id] = status
	}
	s.currentSessionID = snap.CurrentSessionID
}

// UnmarshalJSON rebuilds the part lists through the part union decoder,
// since Part is an interface type.
func (snap *Snapshot) UnmarshalJSON(data []byte) error {
	type alias struct {
		Sessions          map[string]types.Session       `json:"sessions"`
		SessionsByProject map[string][]string            `json:"sessionsByProject"`
		Messages          map[string][]types.Message     `json:"messages"`
		Parts             map[string][]json.RawMessage   `json:"parts"`
		Status            map[string]types.SessionStatus `json:"status"`
		CurrentSessionID  string                         `json:"currentSessionID"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	snap.Sessions = a.Sessions
	snap.SessionsByProject = a.SessionsByProject
	snap.Messages = a.Messages
	snap.Status = a.Status
	snap.CurrentSessionID = a.CurrentSessionID

	snap.Parts = make(map[string][]types.Part, len(a.Parts))
	for messageID, raws := range a.Parts {
		parts := make([]types.Part, 0, len(raws))
		for _, raw := range raws {
			part, err := types.UnmarshalPart(raw)
			if err != nil {
				return err
			}
			parts = append(parts, part)
		}
		snap.Parts[messageID] = parts
	}

	return nil
}
