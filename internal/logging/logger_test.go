package logging

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{" INFO ", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitialize(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize(\"\") error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}

	t.Setenv(LogLevelEnvVar, "warn")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize with env level error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !GetLogger().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled at warn level")
	}

	if err := Initialize("loud"); err == nil {
		t.Error("Initialize(\"loud\") should fail")
	}
}

func TestLogRequestResponse(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	LogRequest("req-1", "PUT", "https://dnac/api/v2/data/customer-facing-service/DeviceInfo", []byte(`[{"id":"x"}]`))
	LogResponse("req-1", 202, "application/json", []byte(strings.Repeat("a", maxPayloadLog+10)), 150*time.Millisecond)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	req := entries[0].ContextMap()
	if req["method"] != "PUT" || req["request_id"] != "req-1" {
		t.Errorf("request fields = %v", req)
	}
	if req["payload"] != `[{"id":"x"}]` {
		t.Errorf("request payload = %v", req["payload"])
	}

	resp := entries[1].ContextMap()
	if resp["status_code"] != int64(202) {
		t.Errorf("status_code = %v", resp["status_code"])
	}
	payload, _ := resp["payload"].(string)
	if len(payload) != maxPayloadLog+3 || !strings.HasSuffix(payload, "...") {
		t.Errorf("payload not truncated, len = %d", len(payload))
	}
}

func TestLogTaskProgress(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	LogTaskProgress("task-1", false, "", 2*time.Second)
	LogTaskProgress("task-1", true, "ok", 0)

	if n := logs.FilterMessage("Task has not completed yet").Len(); n != 1 {
		t.Errorf("pending entries = %d, want 1", n)
	}
	done := logs.FilterMessage("Task completed").All()
	if len(done) != 1 || done[0].ContextMap()["result"] != "ok" {
		t.Errorf("completed entries = %v", done)
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	LogRequest("req-2", "GET", "https://dnac/api/v1/network-device", nil)
	Debug("hidden")
	With(zap.String("host", "edge-1")).Info("visible")

	if logs.Len() != 1 {
		t.Fatalf("got %d entries, want 1", logs.Len())
	}
	if logs.All()[0].ContextMap()["host"] != "edge-1" {
		t.Errorf("child logger lost its fields")
	}
}
