package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"seasonsweep/internal/config"
	"seasonsweep/internal/services"
)

// Event names a notification kind.
type Event string

const (
	// EventSweepCompleted fires when a pass finishes without failures.
	EventSweepCompleted Event = "sweep_completed"
	// EventSweepFailed fires when a pass aborted or recorded failures.
	EventSweepFailed Event = "sweep_failed"
	// EventTest is sent by "seasonsweep check --notify".
	EventTest Event = "test"
)

// Payload carries event fields. Known keys: mode, seasons, files,
// reclaimed, failures, error.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.Notifications.RequestTimeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return fmt.Errorf("unknown notification event %q", event)
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	mode := payload.str("mode", "sweep")
	switch event {
	case EventSweepCompleted:
		body := fmt.Sprintf("%s: %s seasons, %s files, %s reclaimed",
			mode, payload.str("seasons", "0"), payload.str("files", "0"), payload.str("reclaimed", "0 B"))
		return message{
			title: "Seasonsweep - Sweep Complete",
			body:  body,
			tags:  []string{"seasonsweep", "sweep", "completed"},
		}, true
	case EventSweepFailed:
		body := fmt.Sprintf("%s finished with %s failures", mode, payload.str("failures", "0"))
		if errText := payload.str("error", ""); errText != "" {
			body = fmt.Sprintf("%s failed: %s", mode, errText)
		}
		return message{
			title:    "Seasonsweep - Sweep Failed",
			body:     body,
			tags:     []string{"seasonsweep", "sweep", "error"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Seasonsweep - Test",
			body:     "Notification system test",
			tags:     []string{"seasonsweep", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) str(key, fallback string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return fallback
	}
	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" {
		return fallback
	}
	return text
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", services.UserAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
