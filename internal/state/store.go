// Package state holds the client's synchronized view of sessions, messages,
// message parts and session status.
//
// The store is the single source of truth written by the sync layer and read
// by presentation selectors. Every mutation is one atomic transition under
// the write lock, so readers never observe a half-applied update. Entities
// are replaced wholesale on update, never patched in place; selectors return
// copies so callers cannot alias internal slices.
//
// Updates and removals for unknown ids are silent no-ops: the transport is
// allowed to deliver duplicates or events for entities already removed, and
// the cache absorbs them rather than failing.
package state

import (
	"sync"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

// Store is the entity cache. Construct with New and inject it into
// consumers; independent instances are safe, there is no shared state.
type Store struct {
	mu sync.RWMutex

	sessions          map[string]types.Session
	sessionsByProject map[string][]string
	messages          map[string][]types.Message
	parts             map[string][]types.Part
	status            map[string]types.SessionStatus

	currentSessionID string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sessions:          make(map[string]types.Session),
		sessionsByProject: make(map[string][]string),
		messages:          make(map[string][]types.Message),
		parts:             make(map[string][]types.Part),
		status:            make(map[string]types.SessionStatus),
	}
}

// SetSessions replaces the session list for a project and upserts each
// session into the by-id map. Existing entries with the same id are
// overwritten.
func (s *Store) SetSessions(projectID string, sessions []types.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		s.sessions[session.ID] = session
		ids = append(ids, session.ID)
	}
	s.sessionsByProject[projectID] = ids
}

// SetSession upserts a single session by id.
func (s *Store) SetSession(session types.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.sessions[session.ID]
	s.sessions[session.ID] = session

	if !existed && session.ProjectID != "" {
		s.sessionsByProject[session.ProjectID] = append(s.sessionsByProject[session.ProjectID], session.ID)
	}
}

// RemoveSession deletes a session and cascades: its messages, their parts,
// its status entry and its project-list entry are all dropped. Removing an
// unknown id is a no-op. If the removed session was current, the current
// pointer is cleared.
func (s *Store) RemoveSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}

	delete(s.sessions, sessionID)
	delete(s.status, sessionID)

	for _, msg := range s.messages[sessionID] {
		delete(s.parts, msg.ID)
	}
	delete(s.messages, sessionID)

	ids := s.sessionsByProject[session.ProjectID]
	for i, id := range ids {
		if id == sessionID {
			s.sessionsByProject[session.ProjectID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	if s.currentSessionID == sessionID {
		s.currentSessionID = ""
	}
}

// SetCurrentSession sets the current session pointer.
func (s *Store) SetCurrentSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSessionID = sessionID
}

// CurrentSession returns the current session, if any.
func (s *Store) CurrentSession() (types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentSessionID == "" {
		return types.Session{}, false
	}
	session, ok := s.sessions[s.currentSessionID]
	return session, ok
}

// AddMessage appends a message to a session's list, creating the list if
// absent. The cache preserves arrival order; it does not re-sort.
func (s *Store) AddMessage(sessionID string, message types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[sessionID] = append(s.messages[sessionID], message)
}

// UpdateMessage replaces the message whose id matches, leaving its position
// unchanged. No-op when the id is not found.
func (s *Store) UpdateMessage(sessionID string, message types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[sessionID]
	for i, m := range msgs {
		if m.ID == message.ID {
			msgs[i] = message
			return
		}
	}
}

// AddPart appends a part to a message's list, creating the list if absent.
func (s *Store) AddPart(messageID string, part types.Part) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[messageID] = append(s.parts[messageID], part)
}

// UpdatePart replaces the part whose id matches, leaving its position
// unchanged. No-op when the id is not found.
func (s *Store) UpdatePart(messageID string, part types.Part) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := s.parts[messageID]
	for i, p := range parts {
		if p.PartID() == part.PartID() {
			parts[i] = part
			return
		}
	}
}

// SetSessionStatus records the agent's working status for a session.
func (s *Store) SetSessionStatus(sessionID string, status types.SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[sessionID] = status
}

// Session returns the session with the given id.
func (s *Store) Session(sessionID string) (types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	return session, ok
}

// SessionsForProject returns the project's sessions in list order.
func (s *Store) SessionsForProject(projectID string) []types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sessionsByProject[projectID]
	sessions := make([]types.Session, 0, len(ids))
	for _, id := range ids {
		if session, ok := s.sessions[id]; ok {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// Messages returns a session's messages in arrival order.
func (s *Store) Messages(sessionID string) []types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	out := make([]types.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Parts returns a message's parts in arrival order. Stored parts are
// treated as immutable; callers must not mutate the returned elements.
func (s *Store) Parts(messageID string) []types.Part {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := s.parts[messageID]
	out := make([]types.Part, len(parts))
	copy(out, parts)
	return out
}

// Status returns a session's agent status, defaulting to idle when the
// session has never reported one.
func (s *Store) Status(sessionID string) types.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.status[sessionID]; ok {
		return status
	}
	return types.StatusIdle()
}
