package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestGetBeforeInit(t *testing.T) {
	globalLogger = nil
	logger := Get()
	if logger == nil {
		t.Fatal("Get() returned nil before Init")
	}
	if logger.IsEnabled() {
		t.Error("logger should be disabled before Init")
	}
	// Must not panic
	logger.Info("message before init")
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		enabled bool
	}{
		{
			name: "text format with file",
			config: Config{
				FilePath:   filepath.Join(t.TempDir(), "test.log"),
				Level:      slog.LevelInfo,
				Format:     FormatText,
				MaxSizeMB:  10,
				MaxBackups: 2,
			},
			enabled: true,
		},
		{
			name: "json format with file",
			config: Config{
				FilePath:   filepath.Join(t.TempDir(), "test.log"),
				Level:      slog.LevelDebug,
				Format:     FormatJSON,
				MaxSizeMB:  10,
				MaxBackups: 2,
			},
			enabled: true,
		},
		{
			name:    "empty filepath disables logging",
			config:  Config{Level: slog.LevelInfo, Format: FormatText},
			enabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.config); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			defer Shutdown()

			if IsEnabled() != tt.enabled {
				t.Errorf("IsEnabled() = %v, want %v", IsEnabled(), tt.enabled)
			}

			// None of these may panic, enabled or not
			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
		})
	}
}

func TestLogsReachFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "out.log")
	err := Init(Config{
		FilePath:   logFile,
		Level:      slog.LevelDebug,
		Format:     FormatText,
		MaxSizeMB:  10,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Shutdown()

	Info("written to file", "key", "value")

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Error("log file is empty, expected log output")
	}
}

func TestLoggerWith(t *testing.T) {
	err := Init(Config{
		FilePath:   filepath.Join(t.TempDir(), "with.log"),
		Level:      slog.LevelInfo,
		Format:     FormatText,
		MaxSizeMB:  10,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Shutdown()

	logger := Get().With("component", "test")
	if logger == nil {
		t.Fatal("With() returned nil logger")
	}
	logger.Info("message with context")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected LogFormat
	}{
		{"text", FormatText},
		{"json", FormatJSON},
		{"unknown", FormatText},
		{"", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
