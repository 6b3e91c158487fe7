package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging_WarningOpensSessionLog(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() {
		infoLogger, errorLogger, debugLogger = nil, nil, nil
		log.SetOutput(os.Stderr)
	})

	setupLogging(true, dir)
	logInfo("before any warning")
	if matches, _ := filepath.Glob(filepath.Join(dir, "ambient-*.log")); len(matches) != 0 {
		t.Fatalf("log file opened early: %v", matches)
	}

	logWarn("tone %d clamped", 500)
	logError("export failed")
	matches, _ := filepath.Glob(filepath.Join(dir, "ambient-*.log"))
	if len(matches) != 1 {
		t.Fatalf("log files %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"warning: tone 500 clamped", "error: export failed"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
	if debugLogger == nil {
		t.Error("debug logger not enabled")
	}
}
