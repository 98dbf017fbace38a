package logger

import (
	"context"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("sync: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("global logger is nil after Init")
	}

	// Re-initializing must be safe; packages call Init from tests too.
	if err := Init(); err != nil {
		t.Fatalf("re-init: %v", err)
	}
}

func TestFieldsAndLevels(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	ctx := context.Background()
	log := Get()

	log.Info(ctx, "info line", String("sport", "tenis meja"), Int("indexed", 2))
	log.Warn(ctx, "warn line", Float64("latency_ms", 12.5))
	log.Error(ctx, "error line", Error(nil), Any("extra", map[string]int{"n": 1}))
	log.Debug(ctx, "debug line")
}

func TestNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	named := Named("bundler")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(context.Background(), "named line")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q): %v", level, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("SetLevelString accepted an unknown level")
	}
}
