package report

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestNewEventLogger(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.Path() == "" {
		t.Error("EventLogger path is empty")
	}

	// Verify file exists
	if _, err := os.Stat(logger.Path()); os.IsNotExist(err) {
		t.Errorf("Event log file was not created at %s", logger.Path())
	}

	// Verify filename format
	filename := filepath.Base(logger.Path())
	if !strings.HasPrefix(filename, "import-") || !strings.HasSuffix(filename, ".jsonl") {
		t.Errorf("Event log filename format incorrect: %s", filename)
	}
}

func TestEventLoggerLog(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	event := &Event{
		Timestamp: time.Now(),
		Level:     LevelInfo,
		Event:     EventShow,
		RecordID:  "1977-05-08-barton-hall-cornell-u-ithaca-ny-usa",
		SrcPath:   "shows/cornell.json",
	}
	if err := logger.Log(event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	logger.Close()

	content, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("Log file is empty")
	}

	var decoded Event
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("Failed to decode JSONL: %v", err)
	}
	if decoded.RecordID != event.RecordID {
		t.Errorf("Expected record_id %q, got %q", event.RecordID, decoded.RecordID)
	}
	if decoded.Event != EventShow {
		t.Errorf("Expected event %q, got %q", EventShow, decoded.Event)
	}
}

func TestEventLoggerLevelFilter(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelWarning)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	// Below the minimum level, dropped
	logger.LogImported(EventShow, "debug-level-record")
	// At the minimum level, kept
	logger.LogOrphan("gd1968.orphan", "1968-01-01-nowhere")
	logger.Close()

	file, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 event line, got %d", len(lines))
	}

	var decoded Event
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	if decoded.Event != EventOrphan || decoded.Extra["show_id"] != "1968-01-01-nowhere" {
		t.Errorf("unexpected surviving event: %+v", decoded)
	}
}

func TestEventLoggerConcurrent(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.LogSkip(EventRecording, "recordings/bad.json", errors.New("malformed"))
			}
		}()
	}
	wg.Wait()
	logger.Close()

	// Every line must be standalone valid JSON
	file, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var decoded Event
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("interleaved write produced invalid JSONL: %v", err)
		}
		count++
	}
	if count != 200 {
		t.Errorf("expected 200 events, got %d", count)
	}
}

func TestNullLoggerIsSafe(t *testing.T) {
	logger := NullLogger()

	if err := logger.Log(&Event{Level: LevelError, Event: EventError}); err != nil {
		t.Errorf("nil logger Log returned error: %v", err)
	}
	if err := logger.LogError(errors.New("boom")); err != nil {
		t.Errorf("nil logger LogError returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("nil logger Close returned error: %v", err)
	}
	if logger.Path() != "" {
		t.Errorf("nil logger path should be empty, got %q", logger.Path())
	}
}
