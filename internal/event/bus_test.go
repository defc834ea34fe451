package event

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opencode-ai/opencode-client/pkg/types"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var received Event
	var wg sync.WaitGroup
	wg.Add(1)

	unsub := bus.Subscribe(SessionUpdated, func(e Event) {
		received = e
		wg.Done()
	})
	defer unsub()

	event := Event{Type: SessionUpdated, Data: "test-session"}
	bus.Publish(event)

	// Wait for async delivery
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if received.Type != SessionUpdated {
			t.Errorf("Expected SessionUpdated, got %v", received.Type)
		}
		if received.Data != "test-session" {
			t.Errorf("Expected 'test-session', got %v", received.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var count int32
	var wg sync.WaitGroup
	wg.Add(3)

	unsub := bus.SubscribeAll(func(e Event) {
		atomic.AddInt32(&count, 1)
		wg.Done()
	})
	defer unsub()

	// Publish different event types
	bus.Publish(Event{Type: SessionUpdated, Data: nil})
	bus.Publish(Event{Type: MessageCreated, Data: nil})
	bus.Publish(Event{Type: PartUpdated, Data: nil})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if got := atomic.LoadInt32(&count); got != 3 {
			t.Errorf("Expected 3 events, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for events")
	}
}

func TestBus_PublishSync(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var order []EventType
	unsub := bus.SubscribeAll(func(e Event) {
		order = append(order, e.Type)
	})
	defer unsub()

	bus.PublishSync(Event{Type: MessageCreated})
	bus.PublishSync(Event{Type: PartCreated})
	bus.PublishSync(Event{Type: PartUpdated})

	want := []EventType{MessageCreated, PartCreated, PartUpdated}
	if len(order) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Event %d = %v, want %v", i, order[i], want[i])
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var count int32
	unsub := bus.Subscribe(SessionDeleted, func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	bus.PublishSync(Event{Type: SessionDeleted})
	unsub()
	bus.PublishSync(Event{Type: SessionDeleted})

	if got := atomic.LoadInt32(&count); got != 1 {
		t.Errorf("Expected 1 event after unsubscribe, got %d", got)
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus()

	var count int32
	bus.SubscribeAll(func(e Event) {
		atomic.AddInt32(&count, 1)
	})

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	bus.PublishSync(Event{Type: SessionUpdated})
	if got := atomic.LoadInt32(&count); got != 0 {
		t.Errorf("Expected no events after close, got %d", got)
	}
}

func TestDecodeEventData(t *testing.T) {
	cases := []struct {
		eventType EventType
		payload   string
		check     func(t *testing.T, data any)
	}{
		{
			SessionUpdated,
			`{"info":{"id":"s1","projectID":"p1","title":"T","time":{"created":1}}}`,
			func(t *testing.T, data any) {
				d, ok := data.(SessionUpdatedData)
				if !ok || d.Info == nil || d.Info.ID != "s1" {
					t.Errorf("unexpected data %+v", data)
				}
			},
		},
		{
			SessionStatus,
			`{"sessionID":"s1","status":{"type":"retry","attempt":2}}`,
			func(t *testing.T, data any) {
				d, ok := data.(SessionStatusData)
				if !ok || d.Status.Kind != types.StatusRetryKind || d.Status.Attempt != 2 {
					t.Errorf("unexpected data %+v", data)
				}
			},
		},
		{
			PartUpdated,
			`{"part":{"id":"pt1","messageID":"m1","type":"tool","tool":"bash","state":{"status":"running"}}}`,
			func(t *testing.T, data any) {
				d, ok := data.(PartUpdatedData)
				if !ok {
					t.Fatalf("unexpected data %+v", data)
				}
				tool, ok := d.Part.(*types.ToolPart)
				if !ok || tool.State.Status != types.ToolRunning {
					t.Errorf("unexpected part %+v", d.Part)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.eventType), func(t *testing.T) {
			data, err := DecodeEventData(tc.eventType, []byte(tc.payload))
			if err != nil {
				t.Fatalf("DecodeEventData failed: %v", err)
			}
			tc.check(t, data)
		})
	}
}

func TestDecodeEventData_Unknown(t *testing.T) {
	if _, err := DecodeEventData(EventType("file.edited"), json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}
