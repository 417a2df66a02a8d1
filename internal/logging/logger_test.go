// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// restoreGlobal resets the global logger after a test reconfigures it.
func restoreGlobal(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { Init(DefaultConfig()) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" || cfg.Format != FormatJSON || !cfg.Timestamp || cfg.Caller {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestInit_JSON(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: FormatJSON, Output: &buf})

	Debug().Str("k", "v").Msg("hello")
	Err(errors.New("boom")).Msg("failed")

	out := buf.String()
	for _, want := range []string{`"level":"debug"`, `"k":"v"`, `"message":"hello"`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, `"time"`) {
		t.Error("timestamp written although Timestamp was false")
	}
}

func TestInit_LevelFilters(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})

	Info().Msg("quiet")
	Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn entry missing")
	}
}

func TestInit_Console(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	Init(Config{Format: "console", Output: &buf})

	Info().Msg("pretty")
	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output looks like JSON: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, l := range []string{"debug", "INFO", "warn", "disabled"} {
		if !ValidLevel(l) {
			t.Errorf("ValidLevel(%q) = false", l)
		}
	}
	for _, l := range []string{"", "verbose", "critical"} {
		if ValidLevel(l) {
			t.Errorf("ValidLevel(%q) = true", l)
		}
	}
}

func TestSetLogger(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))

	WithComponent("calculator").Info().Msg("ready")
	if !strings.Contains(buf.String(), `"component":"calculator"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}
