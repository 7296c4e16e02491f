package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevelAndFormat(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"WARNING": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}

	if ParseFormat("JSON") != FormatJSON || ParseFormat("") != FormatText {
		t.Fatalf("unexpected ParseFormat result")
	}
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	l.With(map[string]any{"component": "dogs"}).Warn("claim rejected", map[string]any{
		"dog_id": "dog-1",
		"err":    errors.New("already owned"),
		"":       "ignored",
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "dogs" || ctx["dog_id"] != "dog-1" {
		t.Fatalf("unexpected fields: %#v", ctx)
	}
	if ctx["err"] != "already owned" {
		t.Fatalf("expected error field to be rendered, got %#v", ctx["err"])
	}
	if _, ok := ctx[""]; ok {
		t.Fatalf("empty keys must be dropped")
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %s", entries[0].Level)
	}
}
