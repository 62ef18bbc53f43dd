package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

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

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	hdr := header{level: record.Level, ts: timestamp, message: strings.TrimSpace(record.Message)}
	if hdr.message == "" {
		hdr.message = "(no message)"
	}
	for _, attr := range kvs {
		switch attr.key {
		case FieldComponent:
			hdr.component = attrString(attr.value)
		case FieldStage:
			hdr.stage = attrString(attr.value)
		case FieldFile:
			hdr.file = attrString(attr.value)
		case FieldCategory:
			hdr.category = attrString(attr.value)
		case FieldRunID:
			hdr.run = shortRunID(attrString(attr.value))
		}
	}
	if h.addSource {
		hdr.source = record.Source()
	}

	var buf bytes.Buffer
	buf.Grow(192 + len(kvs)*32)
	writeLogHeader(&buf, hdr)
	if record.Level < slog.LevelInfo {
		writeDebugFields(&buf, kvs)
	} else {
		if hdr.file != "" {
			kvs = slices.DeleteFunc(kvs, func(attr kv) bool { return attr.key == FieldCategory })
		}
		writeInfoFields(&buf, kvs)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

type header struct {
	ts        time.Time
	level     slog.Level
	component string
	run       string
	stage     string
	file      string
	category  string
	message   string
	source    *slog.Source
}

func writeLogHeader(buf *bytes.Buffer, hdr header) {
	buf.WriteString(formatTimestamp(hdr.ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(hdr.level))
	if hdr.component != "" {
		buf.WriteString(" [")
		buf.WriteString(hdr.component)
		buf.WriteByte(']')
	}
	if hdr.run != "" {
		buf.WriteString(" #")
		buf.WriteString(hdr.run)
	}
	if subject := formatSubject(hdr.file, hdr.category, hdr.stage); subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	buf.WriteString(" - ")
	buf.WriteString(hdr.message)
	if hdr.source != nil {
		buf.WriteString(" [")
		buf.WriteString(filepath.Base(hdr.source.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(hdr.source.Line))
		buf.WriteByte(']')
	}
	buf.WriteByte('\n')
}

// formatSubject renders "IMG_0001.HEIC (photo, place)". Without a file the
// stage alone is the subject; the category is only meaningful next to a file.
func formatSubject(file, category, stage string) string {
	stage = strings.TrimSpace(stage)
	file = strings.TrimSpace(file)
	if file == "" {
		return stage
	}
	var detail []string
	if category = strings.TrimSpace(category); category != "" {
		detail = append(detail, category)
	}
	if stage != "" {
		detail = append(detail, stage)
	}
	subject := filepath.Base(file)
	if len(detail) > 0 {
		subject += " (" + strings.Join(detail, ", ") + ")"
	}
	return subject
}

// shortRunID keeps the first block of a UUID run id.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func writeInfoFields(buf *bytes.Buffer, attrs []kv) {
	fields, hidden := selectInfoFields(attrs)
	for _, field := range fields {
		buf.WriteString("    - ")
		buf.WriteString(field.label)
		buf.WriteString(": ")
		buf.WriteString(field.value)
		buf.WriteByte('\n')
	}
	if hidden > 0 {
		buf.WriteString("    + ")
		buf.WriteString(strconv.Itoa(hidden))
		buf.WriteString(" more field")
		if hidden != 1 {
			buf.WriteByte('s')
		}
		buf.WriteString(" hidden\n")
	}
}

func writeDebugFields(buf *bytes.Buffer, attrs []kv) {
	for _, attr := range attrs {
		if attr.key == "" || attr.key == FieldComponent {
			continue
		}
		buf.WriteString("    ")
		buf.WriteString(attr.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(attr.value))
		buf.WriteByte('\n')
	}
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	return &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		attrs:     slices.Clone(h.attrs),
		groups:    slices.Clone(h.groups),
		addSource: h.addSource,
	}
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key with the last value,
// so context-derived fields can be refined by later attrs.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
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
