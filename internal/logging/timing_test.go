package logging

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func initTestLogger(t *testing.T) {
	t.Helper()
	err := Init(Config{
		FilePath:   filepath.Join(t.TempDir(), "timing.log"),
		Level:      slog.LevelDebug,
		Format:     FormatText,
		MaxSizeMB:  10,
		MaxBackups: 1,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Shutdown() })
}

func TestTime(t *testing.T) {
	initTestLogger(t)

	called := false
	Time("test operation", func() {
		called = true
	})
	if !called {
		t.Error("Time() did not execute the wrapped function")
	}
}

func TestTimeDisabled(t *testing.T) {
	if err := Init(Config{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	called := false
	Time("disabled operation", func() {
		called = true
	})
	if !called {
		t.Error("Time() must execute the function even when logging is disabled")
	}
}

func TestTimeWithResult(t *testing.T) {
	initTestLogger(t)

	result := TimeWithResult("compute", func() int {
		return 42
	})
	if result != 42 {
		t.Errorf("TimeWithResult() = %d, want 42", result)
	}
}

func TestStartEnd(t *testing.T) {
	initTestLogger(t)

	ctx := Start("manual operation")
	End(ctx)

	ctx = Start("counted operation")
	EndWithCount(ctx, 7)
}

func TestLoggerTime(t *testing.T) {
	initTestLogger(t)

	logger := Get().With("component", "timing-test")
	called := false
	logger.Time("scoped operation", func() {
		called = true
	})
	if !called {
		t.Error("Logger.Time() did not execute the wrapped function")
	}
}
