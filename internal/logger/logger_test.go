package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewByEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		log, err := New(env)
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", env, err)
		}
		if log == nil {
			t.Fatalf("New(%q) returned nil logger", env)
		}
	}
}

func TestLogEntriesAreStructuredJSON(t *testing.T) {
	var buf bytes.Buffer

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	log := zap.New(core)

	log.Info("Catalog loaded",
		zap.Int("products", 16),
		zap.String("path", "catalog.json"),
	)
	log.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}

	if entry["message"] != "Catalog loaded" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["products"] != float64(16) {
		t.Errorf("products = %v", entry["products"])
	}
}

func TestNewWithDefaultsNeverNil(t *testing.T) {
	if log := NewWithDefaults(); log == nil {
		t.Fatal("NewWithDefaults returned nil")
	}
}
