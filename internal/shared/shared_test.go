package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Errorf("expected unique ids, got %s twice", a)
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string of length 36, got %d", len(a))
	}
}

func TestConfigureLogger(t *testing.T) {
	tc := []struct {
		name  string
		debug bool
		level string
		want  log.Level
	}{
		{name: "debug wins", debug: true, level: "error", want: log.DebugLevel},
		{name: "configured level", level: "warn", want: log.WarnLevel},
		{name: "upper case level", level: "ERROR", want: log.ErrorLevel},
		{name: "unknown level falls back", level: "chatty", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf)
			ConfigureLogger(logger, &Config{Debug: tt.debug, LogLevel: tt.level})
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("warns on unknown level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		ConfigureLogger(logger, &Config{LogLevel: "chatty"})
		if !strings.Contains(buf.String(), "unknown log level") {
			t.Errorf("expected warning in log output, got %q", buf.String())
		}
	})
}

func TestBrowserCommand(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }
			cmd, err := browserCommand("http://localhost:8080/")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported platform")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasSuffix(cmd.Path, tt.want) && cmd.Args[0] != tt.want {
				t.Errorf("command = %v, want %s", cmd.Args, tt.want)
			}
			if cmd.Args[len(cmd.Args)-1] != "http://localhost:8080/" {
				t.Errorf("expected url as last argument, got %v", cmd.Args)
			}
		})
	}
}
