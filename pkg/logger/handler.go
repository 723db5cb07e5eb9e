package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

const (
	initialBufferCapacity = 256
	timestampLayout       = "2006-01-02T15:04:05-07:00"
)

// sink is the destination shared by a handler and every handler derived from
// it with WithAttrs or WithGroup.
type sink struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

func (s *sink) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(p)

	return err
}

// CustomHandler writes log entries as "timestamp LEVEL msg key=value" lines,
// with timestamps in local time. Values containing spaces, quotes or control
// characters are quoted.
type CustomHandler struct {
	out    *sink
	level  slog.Leveler
	prefix string // open groups, dot separated, with a trailing dot
	attrs  []byte // attributes added with WithAttrs, already formatted
}

// NewFileHandler creates a handler appending to the file at path.
func NewFileHandler(path string, level Level) (*CustomHandler, error) {
	//nolint:gosec // path comes from the log.file setting
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return &CustomHandler{
		out:   &sink{w: file, file: file},
		level: level.ToSlogLevel(),
	}, nil
}

// NewWriterHandler creates a handler writing to w.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		out:   &sink{w: w},
		level: level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record and writes it as a single line.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity)

	if !r.Time.IsZero() {
		buf = r.Time.Local().AppendFormat(buf, timestampLayout)
		buf = append(buf, ' ')
	}

	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.prefix, a)

		return true
	})

	buf = append(buf, '\n')

	return h.out.write(buf)
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	derived := *h
	derived.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		derived.attrs = appendAttr(derived.attrs, h.prefix, a)
	}

	return &derived
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	derived := *h
	derived.prefix = h.prefix + name + "."

	return &derived
}

// Close closes the log file opened by NewFileHandler. Handlers built on a
// caller-provided writer leave it open.
func (h *CustomHandler) Close() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if h.out.file == nil {
		return nil
	}

	err := h.out.file.Close()
	h.out.file = nil
	h.out.w = io.Discard

	return err
}

func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range group {
			buf = appendAttr(buf, prefix, ga)
		}

		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().Local().AppendFormat(buf, time.RFC3339)
	default:
		s := v.String()
		if needsQuoting(s) {
			return strconv.AppendQuote(buf, s)
		}

		return append(buf, s...)
	}
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	return strings.ContainsFunc(s, func(r rune) bool {
		return r == '"' || r == '=' || unicode.IsSpace(r) || !unicode.IsPrint(r)
	})
}
