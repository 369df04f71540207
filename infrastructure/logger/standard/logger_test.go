package standard

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newshub-core/core/interfaces"
)

var _ interfaces.Logger = (*StandardLogger)(nil)

func TestNewStandardLogger(t *testing.T) {
	logger := NewStandardLogger()

	if logger == nil || logger.entry == nil {
		t.Fatal("NewStandardLogger returned an uninitialized logger")
	}
}

func TestLogger_JSONFormatIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "debug", Format: "json", Output: &buf})

	logger.Info("Fetched news page", map[string]interface{}{
		"category": "keji",
		"page":     2,
	})

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "Fetched news page" {
		t.Errorf("msg = %v", line["msg"])
	}
	if line["category"] != "keji" {
		t.Errorf("category = %v", line["category"])
	}
	if line["level"] != "info" {
		t.Errorf("level = %v", line["level"])
	}
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "warn", Output: &buf})

	logger.Debug("hidden debug", nil)
	logger.Info("hidden info", nil)
	logger.Warn("shown warn", map[string]interface{}{"key": "kv:app_theme"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn were written: %q", out)
	}
	if !strings.Contains(out, "shown warn") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "verbose", Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("shown", nil)

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output for default level: %q", buf.String())
	}
}

func TestLogger_WithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Format: "json", Output: &buf}).With(map[string]interface{}{"component": "news"})

	logger.Error("request failed", nil)

	if !strings.Contains(buf.String(), `"component":"news"`) {
		t.Errorf("With fields missing: %q", buf.String())
	}
}

func TestNewQuietLogger_DropsOutput(t *testing.T) {
	logger := NewQuietLogger()
	logger.Error("nothing visible", nil)
}

func TestLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "newshub.log")
	logger := NewLogger(Options{Level: "info", Format: "json", File: path})

	logger.Warn("Prefetch failed", map[string]interface{}{"category": "tiyu"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"category":"tiyu"`) {
		t.Errorf("log file = %q", data)
	}
}
