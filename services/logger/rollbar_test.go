package logsvc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", TestMode: true, AppName: "Academia", Log: core.LogConfig{Level: "info", Format: "json"}}
	l := NewRollbarLogger(NewZerolog(conf, &buf), conf)

	l.Debug("hidden")
	l.Warn(
		"delete failed",
		errors.New("boom"),
		map[string]interface{}{"student_id": 7},
		user.User{ID: 3, Role: user.RoleAdmin},
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	want := map[string]interface{}{
		"level":      "warn",
		"message":    "delete failed",
		"error":      "boom",
		"student_id": float64(7),
		"user_id":    "3",
		"user_role":  "ADMIN",
		"app":        "Academia",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{level: "debug", want: "debug"},
		{level: "INFO", want: "info"},
		{level: "", want: "warn"},
		{level: "bogus", want: "warn"},
		{level: "error", want: "error"},
		{level: "trace", want: "trace"},
		{level: "Warn", want: "warn"},
		{level: "fatal", want: "fatal"},
		{level: "off", want: "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level).String(); got != tt.want {
				t.Errorf("parseLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}
