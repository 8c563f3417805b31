package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// prettyHandler renders one line per record:
//
//	2026-01-02T15:04:05Z INFO [run/stage] component: message key=value ... path=...
//
// component, run_id and stage move into the prefix; path always prints last.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

type field struct {
	key   string
	value slog.Value
}

type linePrefix struct {
	component string
	runID     string
	stage     string
	path      string
}

// take moves promoted keys into the prefix and reports whether f was consumed.
func (p *linePrefix) take(f field) bool {
	var slot *string
	switch f.key {
	case FieldComponent:
		slot = &p.component
	case FieldRunID:
		slot = &p.runID
	case FieldStage:
		slot = &p.stage
	case FieldPath:
		slot = &p.path
	default:
		return false
	}
	if *slot == "" {
		*slot = render(f.value, false)
	}
	return true
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	fields := make([]field, 0, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields = appendField(fields, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.groups, attr)
		return true
	})

	var prefix linePrefix
	var sb strings.Builder
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	sb.WriteString(ts.UTC().Format(time.RFC3339))
	sb.WriteByte(' ')
	sb.WriteString(levelLabel(record.Level))

	rest := fields[:0]
	for _, f := range fields {
		if !prefix.take(f) {
			rest = append(rest, f)
		}
	}

	if prefix.runID != "" {
		sb.WriteString(" [")
		sb.WriteString(shortRunID(prefix.runID))
		if prefix.stage != "" {
			sb.WriteByte('/')
			sb.WriteString(prefix.stage)
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(' ')
	if prefix.component != "" {
		sb.WriteString(prefix.component)
		sb.WriteString(": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	sb.WriteString(msg)

	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&sb, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	if prefix.stage != "" && prefix.runID == "" {
		rest = append(rest, field{key: FieldStage, value: slog.StringValue(prefix.stage)})
	}
	if prefix.path != "" {
		rest = append(rest, field{key: FieldPath, value: slog.StringValue(prefix.path)})
	}
	for _, f := range rest {
		if f.key == "" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(f.key)
		sb.WriteByte('=')
		sb.WriteString(render(f.value, true))
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, groups []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := groups
		if attr.Key != "" {
			next = append(append([]string(nil), groups...), attr.Key)
		}
		for _, member := range attr.Value.Group() {
			dst = appendField(dst, next, member)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(dst, field{key: key, value: attr.Value})
}

func render(v slog.Value, quote bool) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		s = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		// Numbers, bools and durations never need quoting.
		return v.String()
	}
	if quote && needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
