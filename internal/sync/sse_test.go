package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/opencode-client/internal/event"
	"github.com/opencode-ai/opencode-client/internal/state"
	"github.com/opencode-ai/opencode-client/pkg/types"
)

// sseHandler writes the given frames once and keeps the connection open
// until the request context is done.
func sseHandler(t *testing.T, frames []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/event" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		fmt.Fprint(w, ": heartbeat\n\n")
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}
}

func frame(eventType, data string) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, data)
}

func TestSSEClient_PublishesDecodedEvents(t *testing.T) {
	frames := []string{
		frame("session.updated", `{"info":{"id":"s1","projectID":"p1","title":"T","time":{"created":1}}}`),
		frame("message.created", `{"info":{"id":"m1","sessionID":"s1","role":"assistant","time":{"created":2}}}`),
		frame("part.updated", `{"part":{"id":"pt1","messageID":"m1","type":"tool","tool":"bash","state":{"status":"running","title":"ls"}}}`),
		frame("session.status", `{"sessionID":"s1","status":{"type":"busy"}}`),
	}
	srv := httptest.NewServer(sseHandler(t, frames))
	defer srv.Close()

	bus := event.NewBus()
	defer bus.Close()

	var received []event.Event
	done := make(chan struct{})
	bus.SubscribeAll(func(e event.Event) {
		received = append(received, e)
		if len(received) == len(frames) {
			close(done)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewSSEClient(srv.URL, bus).Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out, received %d of %d events", len(received), len(frames))
	}

	assert.Equal(t, event.SessionUpdated, received[0].Type)
	assert.Equal(t, event.MessageCreated, received[1].Type)
	assert.Equal(t, event.PartUpdated, received[2].Type)
	assert.Equal(t, event.SessionStatus, received[3].Type)

	part, ok := received[2].Data.(event.PartUpdatedData)
	require.True(t, ok)
	tool, ok := part.Part.(*types.ToolPart)
	require.True(t, ok)
	assert.Equal(t, types.ToolRunning, tool.State.Status)
}

func TestSSEClient_MultiLineData(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	got := make(chan event.Event, 1)
	bus.SubscribeAll(func(e event.Event) { got <- e })

	// Data split across lines joins with a newline, which JSON tolerates
	// between tokens.
	stream := "event: session.deleted\n" +
		"data: {\"sessionID\":\n" +
		"data: \"s1\"}\n" +
		"\n"
	c := NewSSEClient("http://unused", bus)
	require.NoError(t, c.readFrames(strings.NewReader(stream)))

	select {
	case e := <-got:
		data, ok := e.Data.(event.SessionDeletedData)
		require.True(t, ok)
		assert.Equal(t, "s1", data.SessionID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSSEClient_DropsUndecodableFrames(t *testing.T) {
	frames := []string{
		frame("session.updated", `{"info":`), // truncated JSON
		frame("file.edited", `{"file":"a.go"}`),
		frame("session.deleted", `{"sessionID":"s1"}`),
	}
	srv := httptest.NewServer(sseHandler(t, frames))
	defer srv.Close()

	bus := event.NewBus()
	defer bus.Close()

	got := make(chan event.Event, 1)
	bus.SubscribeAll(func(e event.Event) { got <- e })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewSSEClient(srv.URL, bus).Run(ctx)

	select {
	case e := <-got:
		assert.Equal(t, event.SessionDeleted, e.Type, "only the valid frame survives")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSSEClient_EndToEndIntoCache(t *testing.T) {
	frames := []string{
		frame("sessions.listed", `{"projectID":"p1","sessions":[{"id":"s1","projectID":"p1","title":"A","time":{"created":1}}]}`),
		frame("message.created", `{"info":{"id":"m1","sessionID":"s1","role":"assistant","time":{"created":2}}}`),
		frame("message.updated", `{"info":{"id":"m1","sessionID":"s1","role":"assistant","time":{"created":2,"completed":3}}}`),
	}
	srv := httptest.NewServer(sseHandler(t, frames))
	defer srv.Close()

	bus := event.NewBus()
	defer bus.Close()
	store := state.New()
	applier := NewApplier(bus, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	applier.Start(ctx)
	defer applier.Stop()

	go NewSSEClient(srv.URL, bus).Run(ctx)

	require.Eventually(t, func() bool {
		msgs := store.Messages("s1")
		return len(msgs) == 1 && msgs[0].Time.Completed != nil
	}, 2*time.Second, 10*time.Millisecond)

	sessions := store.SessionsForProject("p1")
	require.Len(t, sessions, 1)
	assert.Equal(t, "A", sessions[0].Title)
}

func TestSSEClient_Reconnects(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, frame("session.deleted", fmt.Sprintf(`{"sessionID":"s%d"}`, requests)))
		// Close immediately: the client should come back
	}))
	defer srv.Close()

	bus := event.NewBus()
	defer bus.Close()

	count := make(chan struct{}, 16)
	bus.SubscribeAll(func(e event.Event) { count <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewSSEClient(srv.URL, bus).Run(ctx)

	for i := 0; i < 2; i++ {
		select {
		case <-count:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d across reconnects", i+1)
		}
	}
}
