package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// recordingLogger captures records for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	records []record
}

type record struct {
	level  string
	msg    string
	fields []Field
}

func (r *recordingLogger) add(level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record{level, msg, fields})
}

func (r *recordingLogger) Debug(msg string, fields ...Field) { r.add("debug", msg, fields) }
func (r *recordingLogger) Info(msg string, fields ...Field)  { r.add("info", msg, fields) }
func (r *recordingLogger) Warn(msg string, fields ...Field)  { r.add("warn", msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...Field) { r.add("error", msg, fields) }

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithWriter(&buf, zerolog.DebugLevel)

	z.Info("state transition",
		String("from", "New"),
		Int("count", 3),
		Bool("ok", true),
		Duration("took", 2*time.Second),
		Err(errors.New("boom")),
		Any("extra", []int{1, 2}),
	)

	m := decode(t, &buf)
	if m["message"] != "state transition" {
		t.Errorf("message = %v, want state transition", m["message"])
	}
	if m["level"] != "info" {
		t.Errorf("level = %v, want info", m["level"])
	}
	if m["from"] != "New" {
		t.Errorf("from = %v, want New", m["from"])
	}
	if m["count"] != float64(3) {
		t.Errorf("count = %v, want 3", m["count"])
	}
	if m["ok"] != true {
		t.Errorf("ok = %v, want true", m["ok"])
	}
	if m["error"] != "boom" {
		t.Errorf("error = %v, want boom", m["error"])
	}
	if _, ok := m["took"]; !ok {
		t.Error("missing took field")
	}
	if _, ok := m["extra"]; !ok {
		t.Error("missing extra field")
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name  string
		write func(Logger)
		want  string
	}{
		{"debug", func(l Logger) { l.Debug("m") }, "debug"},
		{"info", func(l Logger) { l.Info("m") }, "info"},
		{"warn", func(l Logger) { l.Warn("m") }, "warn"},
		{"error", func(l Logger) { l.Error("m") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(NewZerologAdapterWithWriter(&buf, zerolog.DebugLevel))
			if got := decode(t, &buf)["level"]; got != tt.want {
				t.Errorf("level = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithWriter(&buf, zerolog.WarnLevel)

	z.Debug("hidden")
	z.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("got output below level: %q", buf.String())
	}

	z.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q, want warn record", buf.String())
	}
}

func TestWith_ZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := With(NewZerologAdapterWithWriter(&buf, zerolog.DebugLevel), String("component", "cache"))

	if _, ok := l.(*ZerologAdapter); !ok {
		t.Fatalf("With returned %T, want *ZerologAdapter", l)
	}

	l.Info("hello", String("k", "v"))
	m := decode(t, &buf)
	if m["component"] != "cache" {
		t.Errorf("component = %v, want cache", m["component"])
	}
	if m["k"] != "v" {
		t.Errorf("k = %v, want v", m["k"])
	}
}

func TestWith_WrapsPlainLogger(t *testing.T) {
	rec := &recordingLogger{}
	l := With(rec, String("component", "cache"))
	l = With(l, String("stage", "init"))

	l.Error("failed", Err(errors.New("x")))

	if len(rec.records) != 1 {
		t.Fatalf("got %d records, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.level != "error" || r.msg != "failed" {
		t.Errorf("record = %s %q, want error \"failed\"", r.level, r.msg)
	}

	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	if got := strings.Join(keys, ","); got != "component,stage,error" {
		t.Errorf("field keys = %s, want component,stage,error", got)
	}
}

func TestWith_NoFields(t *testing.T) {
	rec := &recordingLogger{}
	if got := With(rec); got != Logger(rec) {
		t.Errorf("With without fields = %T, want original logger", got)
	}
}

func TestNoopLogger(t *testing.T) {
	// Should not panic.
	l := NewNoopLogger()
	l.Debug("m", String("k", "v"))
	l.Info("m")
	l.Warn("m")
	l.Error("m", Err(errors.New("x")))

	if _, ok := With(l, String("k", "v")).(NoopLogger); !ok {
		t.Error("With(NoopLogger) should stay a NoopLogger")
	}
	Discard.Info("m")
}

func TestStringer(t *testing.T) {
	f := Stringer("d", 3*time.Second)
	if f.Value != "3s" {
		t.Errorf("Stringer value = %v, want 3s", f.Value)
	}
}
