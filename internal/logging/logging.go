// Package logging provides the console slog.Handler used for verbose output.
//
// Lines look like:
//
//	[15:04:05] [css-base64] Ignores resource reference=img/a.png reason=not-found
//
// The time is grey, the tag green, attribute values yellow, and the level is
// printed in red only for warnings and errors. Colors follow fatih/color's
// terminal detection and can be forced off with Options.NoColor.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DefaultTag prefixes every line.
const DefaultTag = "css-base64"

// Options configures a Handler.
type Options struct {
	Level   slog.Leveler // minimum level (default: Info)
	Tag     string       // line tag (default: DefaultTag)
	NoColor bool
}

// Handler is a slog.Handler writing one human-readable line per record.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	tag    string
	attrs  []slog.Attr
	prefix string
	now    func() time.Time

	grey, green, yellow, red *color.Color
}

// Compile-time interface implementation check.
var _ slog.Handler = (*Handler)(nil)

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	h := &Handler{
		mu:     &sync.Mutex{},
		w:      w,
		level:  opts.Level,
		tag:    opts.Tag,
		now:    time.Now,
		grey:   color.New(color.FgHiBlack),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	if h.tag == "" {
		h.tag = DefaultTag
	}
	if opts.NoColor {
		for _, c := range []*color.Color{h.grey, h.green, h.yellow, h.red} {
			c.DisableColor()
		}
	}
	return h
}

// New returns a logger backed by a Handler writing to w.
func New(w io.Writer, opts *Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Enabled reports whether level is at or above the configured minimum.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = h.now()
	}

	var b strings.Builder
	b.WriteString("[" + h.grey.Sprint(ts.Format("15:04:05")) + "] ")
	b.WriteString("[" + h.green.Sprint(h.tag) + "] ")
	if r.Level >= slog.LevelWarn {
		b.WriteString(h.red.Sprint(r.Level.String()) + " ")
	}
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that always appends attrs.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *Handler) writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(b, groupPrefix, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(prefix + a.Key + "=")
	b.WriteString(h.yellow.Sprint(formatValue(a.Value)))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprint(v.Any())
	}
}
