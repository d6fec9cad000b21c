package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the output writer, so color is dropped automatically when
// the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	trace, debug, info, warn, error         lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8").Faint(true),
		trace: fg("4").Faint(true),
		debug: fg("4"),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// scalar renders a resolved non-group value.
func (p palette) scalar(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))
	default:
		a := v.Any()
		if a == nil {
			return p.null.Render("null")
		}

		if err, ok := a.(error); ok {
			return p.no.Render(err.Error())
		}

		return p.str.Render(v.String())
	}
}

// common holds the state shared by both pretty handlers: options, the
// attributes and groups accumulated by WithAttrs and WithGroup, and the
// serialized writer.
type common struct {
	opts    slog.HandlerOptions
	pal     palette
	mu      *sync.Mutex
	w       io.Writer
	groups  []string
	preset  []slog.Attr
	offsets []int // len(groups) when each preset attr was added
}

func makeCommon(w io.Writer, opts *slog.HandlerOptions) common {
	return common{
		opts: *opts,
		pal:  makePalette(w),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (c *common) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if c.opts.Level != nil {
		threshold = c.opts.Level.Level()
	}

	return level >= threshold
}

func (c common) withAttrs(attrs []slog.Attr) common {
	c.preset = append(slices.Clip(c.preset), attrs...)

	for range attrs {
		c.offsets = append(slices.Clip(c.offsets), len(c.groups))
	}

	return c
}

func (c common) withGroup(name string) common {
	if name == "" {
		return c
	}

	c.groups = append(slices.Clip(c.groups), name)

	return c
}

// replace applies the configured ReplaceAttr to a built-in or user attr.
func (c *common) replace(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if c.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = c.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}

	return a
}

// header returns the built-in time, level, source, and message attrs.
func (c *common) header(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if c.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			attrs = append(attrs, slog.String(
				slog.SourceKey, src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	return append(attrs, slog.String(slog.MessageKey, r.Message))
}

// entry is a flattened key/value pair ready for rendering.
type entry struct {
	key   string
	value slog.Value
	level bool
}

// entries flattens the record into dotted keys, applying ReplaceAttr.
func (c *common) entries(r slog.Record) []entry {
	var out []entry

	var add func(groups []string, a slog.Attr)
	add = func(groups []string, a slog.Attr) {
		_, level := a.Value.Any().(slog.Level)
		level = level && a.Key == slog.LevelKey && len(groups) == 0

		a = c.replace(groups, a)
		if a.Equal(slog.Attr{}) {
			return
		}

		if a.Value.Kind() == slog.KindGroup {
			sub := groups
			if a.Key != "" {
				sub = append(slices.Clip(groups), a.Key)
			}

			for _, g := range a.Value.Group() {
				add(sub, g)
			}

			return
		}

		key := a.Key
		if len(groups) > 0 {
			key = strings.Join(groups, ".") + "." + key
		}

		out = append(out, entry{key: key, value: a.Value, level: level})
	}

	for _, a := range c.header(r) {
		add(nil, a)
	}

	for i, a := range c.preset {
		add(c.groups[:c.offsets[i]], a)
	}

	r.Attrs(func(a slog.Attr) bool {
		add(c.groups, a)

		return true
	})

	return out
}

func (c *common) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.w.Write(b)

	return err
}

// prettyTextHandler renders records as key=value pairs without quoting,
// styled for a terminal.
type prettyTextHandler struct {
	common
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{common: makeCommon(w, opts)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, e := range h.entries(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.pal.key.Render(e.key))
		buf.WriteByte('=')

		if e.level {
			buf.WriteString(h.pal.level(r.Level).Render(e.value.String()))
		} else {
			buf.WriteString(h.pal.scalar(e.value))
		}
	}

	buf.WriteByte('\n')

	return h.write(buf.Bytes())
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{common: h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{common: h.withGroup(name)}
}

// prettyJSONHandler renders records as indented JSON objects with styled
// keys and values.
type prettyJSONHandler struct {
	common
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{common: makeCommon(w, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, e := range h.entries(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(strconv.Quote(e.key)))
		buf.WriteString(": ")

		if e.level {
			buf.WriteString(h.pal.level(r.Level).Render(strconv.Quote(e.value.String())))
		} else {
			buf.WriteString(h.jsonValue(e.value))
		}
	}

	buf.WriteString("\n}\n")

	return h.write(buf.Bytes())
}

func (h *prettyJSONHandler) jsonValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.pal.str.Render(strconv.Quote(v.String()))
	case slog.KindDuration:
		return h.pal.dur.Render(strconv.Quote(v.Duration().String()))
	case slog.KindTime:
		return h.pal.when.Render(strconv.Quote(v.Time().Format(time.RFC3339)))
	case slog.KindAny:
		a := v.Any()
		if err, ok := a.(error); ok {
			return h.pal.no.Render(strconv.Quote(err.Error()))
		}

		if a == nil {
			return h.pal.null.Render("null")
		}

		b, err := json.Marshal(a)
		if err != nil {
			return h.pal.str.Render(strconv.Quote(v.String()))
		}

		return h.pal.str.Render(string(b))
	default:
		return h.pal.scalar(v)
	}
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{common: h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{common: h.withGroup(name)}
}
