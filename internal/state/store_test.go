package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

func session(id, projectID, title string) types.Session {
	return types.Session{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		Time:      types.SessionTime{Created: 1700000000000},
	}
}

func message(id, sessionID string, role types.Role) types.Message {
	return types.Message{
		ID:        id,
		SessionID: sessionID,
		Role:      role,
		Time:      types.MessageTime{Created: 1700000000000},
	}
}

func TestStore_SetSessionUpsert(t *testing.T) {
	s := New()

	s.SetSession(session("s1", "p1", "first"))
	got, ok := s.Session("s1")
	require.True(t, ok)
	assert.Equal(t, "first", got.Title)

	// Replace by id
	s.SetSession(session("s1", "p1", "renamed"))
	got, ok = s.Session("s1")
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Title)

	// Upsert does not duplicate the project list entry
	assert.Len(t, s.SessionsForProject("p1"), 1)
}

func TestStore_SetSessionIdempotent(t *testing.T) {
	s := New()
	sess := session("s1", "p1", "stable")

	s.SetSession(sess)
	once := s.Snapshot()

	s.SetSession(sess)
	twice := s.Snapshot()

	assert.Equal(t, once, twice)
}

func TestStore_SetSessions(t *testing.T) {
	s := New()
	s.SetSessions("p1", []types.Session{
		session("s1", "p1", "a"),
		session("s2", "p1", "b"),
	})

	sessions := s.SessionsForProject("p1")
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, "s2", sessions[1].ID)

	// Bulk replace drops sessions no longer listed
	s.SetSessions("p1", []types.Session{session("s2", "p1", "b")})
	sessions = s.SessionsForProject("p1")
	require.Len(t, sessions, 1)
	assert.Equal(t, "s2", sessions[0].ID)
}

func TestStore_RemoveSessionCascades(t *testing.T) {
	s := New()
	s.SetSession(session("s1", "p1", "doomed"))
	s.SetCurrentSession("s1")
	s.AddMessage("s1", message("m1", "s1", types.RoleUser))
	s.AddPart("m1", &types.TextPart{ID: "pt1", MessageID: "m1", Type: "text", Text: "hi"})
	s.SetSessionStatus("s1", types.StatusBusy())

	s.RemoveSession("s1")

	_, ok := s.Session("s1")
	assert.False(t, ok)
	assert.Empty(t, s.Messages("s1"))
	assert.Empty(t, s.Parts("m1"))
	assert.Empty(t, s.SessionsForProject("p1"))
	assert.Equal(t, types.StatusIdle(), s.Status("s1"))

	_, ok = s.CurrentSession()
	assert.False(t, ok, "current pointer should be cleared")
}

func TestStore_RemoveUnknownSessionIsNoop(t *testing.T) {
	s := New()
	s.SetSession(session("s1", "p1", "keep"))

	s.RemoveSession("nope")

	_, ok := s.Session("s1")
	assert.True(t, ok)
}

func TestStore_MessageOrderPreserved(t *testing.T) {
	s := New()
	ids := []string{"m1", "m2", "m3", "m4"}
	for _, id := range ids {
		s.AddMessage("s1", message(id, "s1", types.RoleAssistant))
	}

	msgs := s.Messages("s1")
	require.Len(t, msgs, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, msgs[i].ID)
	}
}

func TestStore_UpdateMessageInPlace(t *testing.T) {
	s := New()
	s.AddMessage("s1", message("m1", "s1", types.RoleUser))
	s.AddMessage("s1", message("m2", "s1", types.RoleAssistant))

	completed := int64(1700000005000)
	updated := message("m2", "s1", types.RoleAssistant)
	updated.Time.Completed = &completed
	s.UpdateMessage("s1", updated)

	msgs := s.Messages("s1")
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[1].ID)
	require.NotNil(t, msgs[1].Time.Completed)
	assert.Equal(t, completed, *msgs[1].Time.Completed)

	// Unknown id is absorbed silently
	s.UpdateMessage("s1", message("m9", "s1", types.RoleAssistant))
	assert.Len(t, s.Messages("s1"), 2)
}

func TestStore_PartLifecycle(t *testing.T) {
	s := New()
	s.AddPart("m1", &types.ToolPart{
		ID: "pt1", MessageID: "m1", Type: "tool", Tool: "bash",
		State: types.ToolState{Status: types.ToolPending},
	})
	s.AddPart("m1", &types.TextPart{ID: "pt2", MessageID: "m1", Type: "text", Text: "ok"})

	s.UpdatePart("m1", &types.ToolPart{
		ID: "pt1", MessageID: "m1", Type: "tool", Tool: "bash",
		State: types.ToolState{Status: types.ToolCompleted, Title: "ls -la"},
	})

	parts := s.Parts("m1")
	require.Len(t, parts, 2)

	tool, ok := parts[0].(*types.ToolPart)
	require.True(t, ok, "update must preserve position")
	assert.Equal(t, types.ToolCompleted, tool.State.Status)

	// Unknown part id is absorbed silently
	s.UpdatePart("m1", &types.TextPart{ID: "ptX", MessageID: "m1", Type: "text"})
	assert.Len(t, s.Parts("m1"), 2)
}

func TestStore_SelectorsReturnCopies(t *testing.T) {
	s := New()
	s.AddMessage("s1", message("m1", "s1", types.RoleUser))

	msgs := s.Messages("s1")
	msgs[0].ID = "mutated"

	fresh := s.Messages("s1")
	assert.Equal(t, "m1", fresh[0].ID)
}

func TestStore_StatusDefaultsToIdle(t *testing.T) {
	s := New()
	assert.Equal(t, types.StatusIdle(), s.Status("never-seen"))

	s.SetSessionStatus("s1", types.StatusRetry(2))
	assert.Equal(t, types.StatusRetry(2), s.Status("s1"))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := New()
	s.SetSessions("p1", []types.Session{session("s1", "p1", "snap")})
	s.SetCurrentSession("s1")
	s.AddMessage("s1", message("m1", "s1", types.RoleAssistant))
	s.AddPart("m1", &types.ToolPart{
		ID: "pt1", MessageID: "m1", Type: "tool", Tool: "grep",
		State: types.ToolState{Status: types.ToolRunning, Title: "Searching"},
	})
	s.SetSessionStatus("s1", types.StatusBusy())

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := New()
	restored.Restore(snap)

	assert.Equal(t, s.Snapshot(), restored.Snapshot())

	parts := restored.Parts("m1")
	require.Len(t, parts, 1)
	tool, ok := parts[0].(*types.ToolPart)
	require.True(t, ok)
	assert.Equal(t, "Searching", tool.State.Title)
}

func TestSnapshot_Independence(t *testing.T) {
	s := New()
	s.SetSession(session("s1", "p1", "original"))
	s.AddMessage("s1", message("m1", "s1", types.RoleUser))

	snap := s.Snapshot()
	snap.Sessions["s1"] = session("s1", "p1", "tampered")
	snap.Messages["s1"][0].ID = "tampered"

	got, ok := s.Session("s1")
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, "m1", s.Messages("s1")[0].ID)
}
