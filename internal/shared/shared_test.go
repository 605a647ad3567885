package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNormalizeTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  string
	}{
		{name: "basic normalization", title: "The Matrix", want: "the matrix"},
		{name: "extra whitespace", title: "  The   Matrix  ", want: "the matrix"},
		{name: "mixed case", title: "ThE MaTrIx", want: "the matrix"},
		{name: "tabs and newlines", title: "The\tMatrix\n", want: "the matrix"},
		{name: "empty", title: "   ", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.title); got != tt.want {
				t.Errorf("NormalizeTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "movie", "Alien")

		if !strings.Contains(buf.String(), "movie=Alien") {
			t.Errorf("expected key-value pair in output, got %q", buf.String())
		}
	})

	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "gateway")
		logger.Warn("lookup failed")

		if !strings.Contains(buf.String(), "component=gateway") {
			t.Errorf("expected child logger field in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Debug("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected debug output to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("started")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected 36 character uuid, got %d", len(a))
	}
}

func TestOpenBrowser(t *testing.T) {
	t.Run("rejects non-http URLs", func(t *testing.T) {
		err := OpenBrowser("file:///etc/passwd")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()

		err := OpenBrowser("http://127.0.0.1:3000")
		if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})

	t.Run("browserCommand per platform", func(t *testing.T) {
		for platform, bin := range map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "cmd"} {
			cmd, err := browserCommand(platform, "http://localhost")
			if err != nil {
				t.Fatalf("browserCommand(%s) error = %v", platform, err)
			}
			if filepath.Base(cmd.Path) != bin && cmd.Args[0] != bin {
				t.Errorf("browserCommand(%s) = %v, want %s", platform, cmd.Args, bin)
			}
		}
	})
}
