// Package sync connects the real-time transport to the entity cache: an SSE
// client feeds decoded events onto the bus, and the applier drains them into
// the cache through a single serialized mutation queue. Transport concerns
// (reconnect, backoff) stay on this side of the boundary; the cache's
// mutation API never sees them.
package sync

import (
	"context"

	"github.com/opencode-ai/opencode-client/internal/event"
	"github.com/opencode-ai/opencode-client/internal/logging"
	"github.com/opencode-ai/opencode-client/internal/state"
)

// Applier subscribes to the bus and applies entity events to the cache.
// All mutations funnel through one queue goroutine, so deliveries from
// concurrent publishers become a single ordered mutation stream.
type Applier struct {
	bus   *event.Bus
	store *state.Store

	queue chan event.Event
	unsub func()
	quit  chan struct{}
	done  chan struct{}
}

// NewApplier creates an applier for the given bus and cache.
func NewApplier(bus *event.Bus, store *state.Store) *Applier {
	return &Applier{
		bus:   bus,
		store: store,
		queue: make(chan event.Event, 256),
	}
}

// Start subscribes to the bus and launches the queue goroutine. The
// subscription blocks publishers when the queue is full rather than dropping
// events, since dropped entity events would leave the cache inconsistent.
func (a *Applier) Start(ctx context.Context) {
	a.quit = make(chan struct{})
	a.done = make(chan struct{})
	quit := a.quit

	a.unsub = a.bus.SubscribeAll(func(e event.Event) {
		select {
		case a.queue <- e:
		case <-ctx.Done():
		case <-quit:
		}
	})

	go func() {
		defer close(a.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-quit:
				return
			case e := <-a.queue:
				a.apply(e)
			}
		}
	}()
}

// Stop unsubscribes from the bus and waits for the queue goroutine to exit.
// Safe to call regardless of whether the Start context was cancelled.
func (a *Applier) Stop() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
	if a.quit != nil {
		close(a.quit)
		a.quit = nil
	}
	if a.done != nil {
		<-a.done
	}
}

// apply dispatches one event to the cache. Payloads the applier does not
// recognize are logged and dropped; the cache absorbs unknown-id updates
// itself.
func (a *Applier) apply(e event.Event) {
	switch data := e.Data.(type) {
	case event.SessionsListedData:
		a.store.SetSessions(data.ProjectID, data.Sessions)
	case event.SessionUpdatedData:
		if data.Info != nil {
			a.store.SetSession(*data.Info)
		}
	case event.SessionDeletedData:
		a.store.RemoveSession(data.SessionID)
	case event.SessionStatusData:
		a.store.SetSessionStatus(data.SessionID, data.Status)
	case event.MessageCreatedData:
		if data.Info != nil {
			a.store.AddMessage(data.Info.SessionID, *data.Info)
		}
	case event.MessageUpdatedData:
		if data.Info != nil {
			a.store.UpdateMessage(data.Info.SessionID, *data.Info)
		}
	case event.PartCreatedData:
		if data.Part != nil {
			a.store.AddPart(data.Part.PartMessageID(), data.Part)
		}
	case event.PartUpdatedData:
		if data.Part != nil {
			a.store.UpdatePart(data.Part.PartMessageID(), data.Part)
		}
	default:
		logging.Debug().
			Str("type", string(e.Type)).
			Msg("dropping event with unrecognized payload")
	}
}
