package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestPrefixWriter(t *testing.T) {
	testCases := []struct {
		name   string
		writes []string
		flush  bool
		want   string
	}{
		{name: "single line", writes: []string{"hello\n"}, want: "> hello\n"},
		{name: "two lines one write", writes: []string{"a\nb\n"}, want: "> a\n> b\n"},
		{name: "split line", writes: []string{"hel", "lo\n"}, want: "> hello\n"},
		{name: "partial held back", writes: []string{"done\npart"}, want: "> done\n"},
		{name: "partial flushed", writes: []string{"done\npart"}, flush: true, want: "> done\n> part"},
		{name: "empty flush", writes: nil, flush: true, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			pw := NewPrefixWriter("> ", &buf)
			for _, w := range tc.writes {
				n, err := pw.Write([]byte(w))
				if err != nil {
					t.Fatalf("Write: %v", err)
				}
				if n != len(w) {
					t.Errorf("Write returned %d, want %d", n, len(w))
				}
			}
			if tc.flush {
				if err := pw.Flush(); err != nil {
					t.Fatalf("Flush: %v", err)
				}
			}
			if got := buf.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input     string
		wantLevel hclog.Level
		wantJSON  bool
	}{
		{input: "debug", wantLevel: hclog.Debug},
		{input: "TRACE", wantLevel: hclog.Trace},
		{input: "error", wantLevel: hclog.Error},
		{input: "json", wantLevel: hclog.Info, wantJSON: true},
		{input: "json:debug", wantLevel: hclog.Debug, wantJSON: true},
		{input: "", wantLevel: hclog.Warn},
		{input: "nonsense", wantLevel: hclog.Warn},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, jsonFormat := ParseLevel(tc.input)
			if level != tc.wantLevel {
				t.Errorf("level: got %s, want %s", level, tc.wantLevel)
			}
			if jsonFormat != tc.wantJSON {
				t.Errorf("json: got %v, want %v", jsonFormat, tc.wantJSON)
			}
		})
	}
}

func TestResolveLevel(t *testing.T) {
	testCases := []struct {
		cli, config string
		wantLevel   string
		wantSource  string
	}{
		{cli: "trace", config: "error", wantLevel: "trace", wantSource: "cli"},
		{cli: "", config: "error", wantLevel: "error", wantSource: "config"},
		{cli: "", config: "", wantLevel: DefaultLevel, wantSource: "default"},
	}

	for _, tc := range testCases {
		level, source := ResolveLevel(tc.cli, tc.config)
		if level != tc.wantLevel || source != tc.wantSource {
			t.Errorf("ResolveLevel(%q, %q) = (%s, %s), want (%s, %s)",
				tc.cli, tc.config, level, source, tc.wantLevel, tc.wantSource)
		}
	}
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := NewLogger(Options{Name: "test", Level: "info", Output: &buf})
	logger.Info("Extracted project", "files", 3)
	logger.Debug("hidden")
	closeFn()

	out := buf.String()
	if !strings.HasPrefix(out, Prefix()) {
		t.Errorf("missing prefix: %q", out)
	}
	if !strings.Contains(out, "Extracted project") || !strings.Contains(out, "files=3") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := NewLogger(Options{Name: "test", Level: "debug", JSON: true, Output: &buf})
	logger.Debug("resolved", "title", "Demo")
	closeFn()

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("output is not JSON: %q: %v", buf.String(), err)
	}
	if record["@message"] != "resolved" || record["title"] != "Demo" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.log")
	logger, closeFn := NewLogger(Options{Name: "test", Level: "warn", Path: path})
	logger.Warn("to file")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file content: %q", data)
	}
}
