package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrefixWriter_Lines(t *testing.T) {
	tests := []struct {
		name     string
		writes   []string
		expected string
	}{
		{
			name:     "single line",
			writes:   []string{"hello\n"},
			expected: "> hello\n",
		},
		{
			name:     "split across writes",
			writes:   []string{"hel", "lo\nwor", "ld\n"},
			expected: "> hello\n> world\n",
		},
		{
			name:     "partial line held back",
			writes:   []string{"a\nb"},
			expected: "> a\n",
		},
		{
			name:     "empty lines",
			writes:   []string{"\n\n"},
			expected: "> \n> \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			pw := NewPrefixWriter("> ", &out)
			for _, w := range tt.writes {
				n, err := pw.Write([]byte(w))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if n != len(w) {
					t.Errorf("Write(%q) = %d, want %d", w, n, len(w))
				}
			}
			if out.String() != tt.expected {
				t.Errorf("output = %q, want %q", out.String(), tt.expected)
			}
		})
	}
}

func TestPrefixWriter_Flush(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)
	if _, err := pw.Write([]byte("tail")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pw.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "> tail" {
		t.Errorf("output = %q, want %q", out.String(), "> tail")
	}
}

func TestResolveSettings(t *testing.T) {
	tests := []struct {
		name   string
		cli    string
		env    string
		level  string
		source string
		json   bool
	}{
		{name: "default", level: DefaultLevel, source: "default"},
		{name: "env", env: "debug", level: "debug", source: EnvLogLevel},
		{name: "cli wins", cli: "trace", env: "debug", level: "trace", source: "CLI --log-level"},
		{name: "json with level", cli: "json:warn", level: "warn", source: "CLI --log-level", json: true},
		{name: "bare json", cli: "json", level: DefaultLevel, source: "CLI --log-level", json: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.env)
			t.Setenv(EnvJSONLog, "")
			s := ResolveSettings(tt.cli)
			if s.Level != tt.level || s.Source != tt.source || s.JSON != tt.json {
				t.Errorf("ResolveSettings(%q) = %+v, want level=%s source=%s json=%v",
					tt.cli, s, tt.level, tt.source, tt.json)
			}
		})
	}
}

func TestNewLogger_PrefixesText(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger("test", Settings{Level: "info"}, &out)
	logger.Info("frames sliced", "count", 24)

	got := out.String()
	if !strings.HasPrefix(got, linePrefix) {
		t.Errorf("log line %q does not start with prefix %q", got, linePrefix)
	}
	if !strings.Contains(got, "count=24") {
		t.Errorf("log line %q missing key/value pair", got)
	}
}

func TestOpenLogOutput_WarnsWhenUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "egfpatch.log")

	var warn bytes.Buffer
	out := openLogOutput(path, &warn)
	if out != os.Stderr {
		t.Errorf("output = %v, want stderr", out)
	}
	if !strings.Contains(warn.String(), EnvLogPath) || !strings.Contains(warn.String(), path) {
		t.Errorf("warning %q does not name %s and the path", warn.String(), EnvLogPath)
	}
}

func TestNewLogger_LogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "egfpatch.log")
	t.Setenv(EnvLogPath, path)
	t.Cleanup(func() { Close() })

	first := NewLogger("first", Settings{Level: "info"}, nil)
	second := NewLogger("second", Settings{Level: "info"}, nil)
	first.Info("container copied")
	second.Info("bitmaps injected")

	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, want := range []string{"container copied", "bitmaps injected"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
}
