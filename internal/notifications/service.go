package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"postflow/internal/config"
)

const userAgent = "Postflow-Go/0.1.0"

// maxListedItems caps how many missed entries a summary carries.
const maxListedItems = 10

// Event identifies a notification kind.
type Event string

const (
	EventRunCompleted Event = "run_completed"
	EventRunFailed    Event = "run_failed"
	EventError        Event = "error"
	EventTest         Event = "test"
)

// Payload carries event fields. Known keys: directory, missed ([]string),
// context, error.
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

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		runSummary: cfg.Notifications.RunSummary,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	runSummary bool
	errors     bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	msg, ok := n.format(event, data)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) format(event Event, data Payload) (payload, bool) {
	switch event {
	case EventRunCompleted:
		if !n.runSummary {
			return payload{}, false
		}
		message := fmt.Sprintf("✅ Processed: %s", data.text("directory"))
		if missed := data.list("missed"); len(missed) > 0 {
			message = fmt.Sprintf("%s\nSkipped %d item(s):\n%s", message, len(missed), bulletList(missed))
		}
		return payload{
			title:   "Postflow - Processed",
			message: message,
			tags:    []string{"postflow", "run", "completed"},
		}, true
	case EventRunFailed:
		if !n.runSummary {
			return payload{}, false
		}
		message := fmt.Sprintf("⚠️ Problems processing: %s", data.text("directory"))
		if missed := data.list("missed"); len(missed) > 0 {
			message = fmt.Sprintf("%s\n%s", message, bulletList(missed))
		}
		return payload{
			title:    "Postflow - Problems",
			message:  message,
			tags:     []string{"postflow", "run", "failed"},
			priority: "high",
		}, true
	case EventError:
		if !n.errors {
			return payload{}, false
		}
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := data.text("context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if text := data.text("error"); text != "" {
			builder.WriteString(text)
		} else {
			builder.WriteString("unknown")
		}
		return payload{
			title:    "Postflow - Error",
			message:  builder.String(),
			tags:     []string{"postflow", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return payload{
			title:    "Postflow - Test",
			message:  "🧪 Notification system test",
			tags:     []string{"postflow", "test"},
			priority: "low",
		}, true
	default:
		return payload{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
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

func (p Payload) text(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (p Payload) list(key string) []string {
	items, _ := p[key].([]string)
	return items
}

func bulletList(items []string) string {
	lines := make([]string, 0, maxListedItems+1)
	for i, item := range items {
		if i == maxListedItems {
			lines = append(lines, fmt.Sprintf("… and %d more", len(items)-maxListedItems))
			break
		}
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
