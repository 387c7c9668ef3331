package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileOutput(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "viewer.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
		Compress:   false,
	}

	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	Sugar.Infof("terrain regenerated with %d iterations", 4000)
	Sugar.Warnf("dropped non-triangle face")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "terrain regenerated with 4000 iterations") {
		t.Error("info message missing from log file")
	}
	if !strings.Contains(content, "dropped non-triangle face") {
		t.Error("warn message missing from log file")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"warn":    "warn",
		"error":   "error",
		"info":    "info",
		"unknown": "info", // falls back to info
	}

	for input, want := range cases {
		if got := parseLevel(input).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
