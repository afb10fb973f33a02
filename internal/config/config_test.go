package config

import (
	"testing"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.SocketPath != "" {
		t.Fatalf("expected empty socket path, got %q", cfg.App.SocketPath)
	}
	if cfg.App.BoardPath != "" {
		t.Fatalf("expected empty board path, got %q", cfg.App.BoardPath)
	}
	if cfg.App.Width != 0 || cfg.App.Height != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if cfg.App.ShowFooter || cfg.App.Verbose || cfg.Logging.Trace {
		t.Fatal("expected boolean flags off by default")
	}
}

func TestLoadArgsParsesFlags(t *testing.T) {
	args := []string{
		"--socket", "/tmp/sock",
		"--board", "/tmp/board",
		"--width", "100",
		"--height", "30",
		"--footer",
		"--trace",
		"--verbose",
		"--log-file", "/tmp/pinboard.log",
	}
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.SocketPath != "/tmp/sock" {
		t.Fatalf("unexpected socket %q", cfg.App.SocketPath)
	}
	if cfg.App.BoardPath != "/tmp/board" {
		t.Fatalf("unexpected board %q", cfg.App.BoardPath)
	}
	if cfg.App.Width != 100 || cfg.App.Height != 30 {
		t.Fatalf("unexpected dimensions %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if !cfg.App.ShowFooter || !cfg.App.Verbose {
		t.Fatal("expected footer and verbose enabled")
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/pinboard.log" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Flags["width"] != "100" {
		t.Fatalf("expected width recorded in flags, got %q", cfg.Flags["width"])
	}
}

func TestLoadArgsReadsEnvironment(t *testing.T) {
	environ := []string{
		"TMUX_PINBOARD_SOCKET=/tmp/env-sock",
		"TMUX_PINBOARD_BOARD=/tmp/env-board",
		"TMUX_PINBOARD_WIDTH=90",
		"TMUX_PINBOARD_FOOTER=true",
		"TMUX_PINBOARD_TRACE=1",
	}
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.SocketPath != "/tmp/env-sock" {
		t.Fatalf("unexpected socket %q", cfg.App.SocketPath)
	}
	if cfg.App.BoardPath != "/tmp/env-board" {
		t.Fatalf("unexpected board %q", cfg.App.BoardPath)
	}
	if cfg.App.Width != 90 {
		t.Fatalf("unexpected width %d", cfg.App.Width)
	}
	if !cfg.App.ShowFooter {
		t.Fatal("expected footer enabled via environment")
	}
	if !cfg.Logging.Trace {
		t.Fatal("expected trace enabled via environment")
	}
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	environ := []string{"TMUX_PINBOARD_SOCKET=/tmp/env-sock"}
	cfg, err := LoadArgs([]string{"--socket", "/tmp/flag-sock"}, environ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.SocketPath != "/tmp/flag-sock" {
		t.Fatalf("expected flag to win, got %q", cfg.App.SocketPath)
	}
}

func TestLoadArgsIgnoresMalformedEnvValues(t *testing.T) {
	environ := []string{
		"TMUX_PINBOARD_WIDTH=not-a-number",
		"TMUX_PINBOARD_FOOTER=maybe",
	}
	cfg, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Width != 0 {
		t.Fatalf("expected malformed width ignored, got %d", cfg.App.Width)
	}
	if cfg.App.ShowFooter {
		t.Fatal("expected malformed footer ignored")
	}
}

func TestLoadArgsRejectsNegativeDimensions(t *testing.T) {
	if _, err := LoadArgs([]string{"--width", "-1"}, nil); err == nil {
		t.Fatal("expected error for negative width")
	}
	if _, err := LoadArgs([]string{"--height", "-5"}, nil); err == nil {
		t.Fatal("expected error for negative height")
	}
}
