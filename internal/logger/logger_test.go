package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestLevels_Formatting(t *testing.T) {
	setupTestLogger(t)

	// Should not panic
	Debug("integer: %d", 123)
	Info("string: %s", "hello")
	Warn("float: %.2f", 3.14159)
	Error("multiple: %s=%d", "count", 5)
}

func TestDebug_FilteredByDefault(t *testing.T) {
	logPath := setupTestLogger(t)

	Debug("hidden-debug-marker")
	Info("visible-info-marker")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-debug-marker") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(content, "visible-info-marker") {
		t.Error("info message should be written")
	}
}

func TestSetDebug(t *testing.T) {
	logPath := setupTestLogger(t)

	SetDebug(true)
	Debug("debug-enabled-marker")
	SetDebug(false)
	Debug("debug-disabled-marker")

	content := readLog(t, logPath)
	if !strings.Contains(content, "debug-enabled-marker") {
		t.Error("debug message should be written when debug is enabled")
	}
	if strings.Contains(content, "debug-disabled-marker") {
		t.Error("debug message should be filtered after debug is disabled")
	}
}

func TestComponentLogger(t *testing.T) {
	logPath := setupTestLogger(t)

	ComponentLogger("Gateway").Info("request finished", "status", 200)
	WithComponent("Tabs").Info("tab opened")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=Gateway") {
		t.Errorf("log should contain component attribute, got:\n%s", content)
	}
	if !strings.Contains(content, "component=Tabs") {
		t.Errorf("WithComponent should attach the component, got:\n%s", content)
	}
	if !strings.Contains(content, "status=200") {
		t.Errorf("log should contain structured attributes, got:\n%s", content)
	}
}

func TestWithRequest(t *testing.T) {
	logPath := setupTestLogger(t)

	WithRequest("Gateway", "req-123").Info("sending")

	content := readLog(t, logPath)
	if !strings.Contains(content, "request_id=req-123") {
		t.Errorf("log should contain request id, got:\n%s", content)
	}
}

func TestPath(t *testing.T) {
	logPath := setupTestLogger(t)

	if got := Path(); got != logPath {
		t.Errorf("Path() = %q, want %q", got, logPath)
	}
	Reset()
	if got := Path(); got != "" {
		t.Errorf("Path() after Reset = %q, want empty", got)
	}
}

func TestClose(t *testing.T) {
	setupTestLogger(t)

	// Close should not panic, and logging after close is a no-op
	Close()
	Info("after close")
}

func TestLog_Concurrent(t *testing.T) {
	setupTestLogger(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(n int) {
			for j := 0; j < 100; j++ {
				Info("concurrent test %d-%d", n, j)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestReset(t *testing.T) {
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	Reset()
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	Info("message to log2")

	content1 := readLog(t, logPath1)
	if !strings.Contains(content1, "message to log1") {
		t.Error("log1 should contain 'message to log1'")
	}
	if strings.Contains(content1, "message to log2") {
		t.Error("log1 should NOT contain 'message to log2'")
	}

	content2 := readLog(t, logPath2)
	if !strings.Contains(content2, "message to log2") {
		t.Error("log2 should contain 'message to log2'")
	}
	if strings.Contains(content2, "message to log1") {
		t.Error("log2 should NOT contain 'message to log1'")
	}

	Reset()
}

func TestInit_BadPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("Init should fail for a path in a missing directory")
	}
}

func TestLogPaths(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if got := LogPaths(); len(got) != 1 || got[0] != DefaultLogPath {
		t.Errorf("LogPaths() = %v, want only the default path", got)
	}

	custom := filepath.Join(t.TempDir(), "custom.log")
	if err := Init(custom); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got := LogPaths(custom, "", DefaultLogPath)
	if len(got) != 2 || got[0] != DefaultLogPath || got[1] != custom {
		t.Errorf("LogPaths() = %v, want [%s %s]", got, DefaultLogPath, custom)
	}
}

func TestClearLogs_RemovesExtraPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	extra := filepath.Join(t.TempDir(), "old.log")
	if err := os.WriteFile(extra, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	n, err := ClearLogs(extra)
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if n < 1 {
		t.Errorf("ClearLogs removed %d files, want at least 1", n)
	}
	if _, err := os.Stat(extra); !os.IsNotExist(err) {
		t.Error("extra log file should be gone")
	}
}
