package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/termsweep/config"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	logFile := setupLogging(false, t.TempDir())
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}

	output := log.Writer()
	if output != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", output)
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logFile := setupLogging(true, logDir)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()
	defer log.SetOutput(io.Discard)

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Error("Expected logs directory to be created")
	}

	logPath := filepath.Join(logDir, logFileName)
	log.Println("Test log message")

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	logDir := t.TempDir()
	logPath := filepath.Join(logDir, logFileName)

	largeFile, err := os.Create(logPath)
	if err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}
	if err := largeFile.Truncate(maxLogSize + 1); err != nil {
		t.Fatalf("Failed to grow log file: %v", err)
	}
	largeFile.Close()

	logFile := setupLogging(true, logDir)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer log.SetOutput(io.Discard)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}

	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetupLogging_NoStdoutStderr(t *testing.T) {
	logFile := setupLogging(true, t.TempDir())
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer log.SetOutput(io.Discard)

	output := log.Writer()
	if output == os.Stdout {
		t.Error("Log output should not be stdout")
	}
	if output == os.Stderr {
		t.Error("Log output should not be stderr")
	}
}

func TestApplyFlagsValidates(t *testing.T) {
	cfg := configWith(t, "expert")
	if err := applyFlags(cfg); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	cfg = configWith(t, "impossible")
	if err := applyFlags(cfg); err == nil {
		t.Error("Expected unknown difficulty to be rejected")
	}
}

func TestNewGameUsesConfiguredDifficulty(t *testing.T) {
	cfg := configWith(t, "intermediate")
	game, err := newGame(cfg, nil)
	if err != nil {
		t.Fatalf("newGame failed: %v", err)
	}
	if got := game.Render().Lines(); got < 17 {
		t.Errorf("Expected at least 17 rows for a 16-row board, got %d", got)
	}
}

func configWith(t *testing.T, difficulty string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Game.Difficulty = difficulty
	return cfg
}
