package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	log.Info().Msg("hidden")
	log.Warn().Str("path", "a.png").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"path":"a.png"`) {
		t.Errorf("expected JSON field in output, got %s", out)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Debug().Msg("segmenting")

	if !strings.Contains(buf.String(), "segmenting") {
		t.Errorf("console output missing message: %q", buf.String())
	}
	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output should not be JSON: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" TRACE ", zerolog.TraceLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
