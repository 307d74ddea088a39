package logger

import (
	"errors"
	"testing"
)

type entry struct {
	level   string
	message string
	keyvals []any
}

type recorder struct {
	entries  []entry
	closed   bool
	closeErr error
}

func (r *recorder) add(level, msg string, kv []any) {
	r.entries = append(r.entries, entry{level: level, message: msg, keyvals: kv})
}

func (r *recorder) Log(m string, kv ...any) { r.add("log", m, kv) }
func (r *recorder) Debug(m string, kv ...any) { r.add("debug", m, kv) }
func (r *recorder) Info(m string, kv ...any) { r.add("info", m, kv) }
func (r *recorder) Warn(m string, kv ...any) { r.add("warn", m, kv) }
func (r *recorder) Error(m string, kv ...any) { r.add("error", m, kv) }
func (r *recorder) Fatal(m string, kv ...any) { r.add("fatal", m, kv) }

func (r *recorder) Close() error {
	r.closed = true
	return r.closeErr
}

func TestDispatchToAllInstances(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	defer Close()

	Info("article processed", "article", "Apple", "entities", 3)
	Warn("malformed response")
	Log("plain", "k", "v")

	for _, r := range []*recorder{a, b} {
		if len(r.entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(r.entries))
		}
		if r.entries[0].level != "info" || len(r.entries[0].keyvals) != 4 {
			t.Fatalf("unexpected first entry %+v", r.entries[0])
		}
		if r.entries[2].level != "log" || len(r.entries[2].keyvals) != 2 {
			t.Fatalf("Log dropped its key/value pairs: %+v", r.entries[2])
		}
	}
}

func TestLoggingBeforeInitIsDropped(t *testing.T) {
	_ = Close()
	Info("nobody listens")
	Debug("nobody listens")
}

func TestCloseClosesInstances(t *testing.T) {
	a := &recorder{}
	b := &recorder{closeErr: errors.New("disk full")}
	Init(a, b)

	err := Close()
	if err == nil {
		t.Fatalf("expected close error to be reported")
	}
	if !a.closed || !b.closed {
		t.Fatalf("expected every instance to be closed")
	}

	Info("after close")
	if len(a.entries) != 0 {
		t.Fatalf("expected no entries after close, got %d", len(a.entries))
	}
}
