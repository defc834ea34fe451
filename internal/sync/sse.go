package sync

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/opencode-ai/opencode-client/internal/event"
	"github.com/opencode-ai/opencode-client/internal/logging"
)

// SSEClient subscribes to the server's /event stream and publishes decoded
// events onto the bus. It reconnects with exponential backoff until its
// context is cancelled.
type SSEClient struct {
	baseURL    string
	httpClient *http.Client
	bus        *event.Bus
}

// NewSSEClient creates an SSE client for the given server base URL.
func NewSSEClient(baseURL string, bus *event.Bus) *SSEClient {
	return &SSEClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No timeout: the event stream is long-lived by design.
		httpClient: &http.Client{Timeout: 0},
		bus:        bus,
	}
}

// Run connects and streams until ctx is cancelled. Connection failures and
// dropped streams are retried with exponential backoff; a successful
// connection resets the backoff.
func (c *SSEClient) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	for {
		connected, err := c.stream(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			bo.Reset()
		}
		if err != nil {
			logging.Warn().Err(err).Msg("event stream dropped, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(bo.NextBackOff()):
		}
	}
}

// stream opens one connection and reads frames until it breaks. It reports
// whether the connection was established.
func (c *SSEClient) stream(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/event", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		return false, fmt.Errorf("unexpected content type: %s", ct)
	}

	logging.Info().Str("url", c.baseURL).Msg("event stream connected")
	return true, c.readFrames(resp.Body)
}

// readFrames parses event:/data: frames and publishes each complete frame.
func (c *SSEClient) readFrames(body io.Reader) error {
	reader := bufio.NewReader(body)
	var eventType string
	var eventData strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimRight(line, "\r\n")

		// Empty line terminates a frame
		if line == "" {
			if eventData.Len() > 0 {
				c.dispatch(eventType, eventData.String())
			}
			eventType = ""
			eventData.Reset()
			continue
		}

		switch {
		case strings.HasPrefix(line, ":"):
			// Comment, used for heartbeats
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			// Multi-line data joins with a newline per the SSE format.
			if eventData.Len() > 0 {
				eventData.WriteByte('\n')
			}
			eventData.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
}

// dispatch decodes one frame and publishes it synchronously, so frame order
// is preserved on the bus.
func (c *SSEClient) dispatch(eventType, payload string) {
	data, err := event.DecodeEventData(event.EventType(eventType), []byte(payload))
	if err != nil {
		logging.Debug().
			Str("type", eventType).
			Err(err).
			Msg("dropping undecodable event")
		return
	}
	c.bus.PublishSync(event.Event{Type: event.EventType(eventType), Data: data})
}
