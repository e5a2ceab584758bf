package mqtt

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"device status", StatusTopic("ZWayVDev_zway_3-0-38"), "blindbridge/status/ZWayVDev_zway_3-0-38"},
		{"device list", DevicesTopic(), "blindbridge/devices"},
		{"system status", SystemStatusTopic(), "blindbridge/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.got)
			}
		})
	}
}

func TestBuildStatusPayload(t *testing.T) {
	payload := buildStatusPayload("blindbridge", "offline", "graceful_shutdown")

	var decoded map[string]string
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded["status"] != "offline" {
		t.Errorf("expected status offline, got %q", decoded["status"])
	}
	if decoded["client_id"] != "blindbridge" {
		t.Errorf("expected client_id blindbridge, got %q", decoded["client_id"])
	}
	if decoded["reason"] != "graceful_shutdown" {
		t.Errorf("expected reason graceful_shutdown, got %q", decoded["reason"])
	}
	if decoded["timestamp"] == "" {
		t.Error("expected a timestamp")
	}
}

func TestBuildStatusPayloadOmitsEmptyReason(t *testing.T) {
	payload := buildStatusPayload("blindbridge", "online", "")

	var decoded map[string]string
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := decoded["reason"]; ok {
		t.Error("expected reason to be absent for online status")
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	if err := c.Publish("", []byte("x"), false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: expected ErrInvalidTopic, got %v", err)
	}

	oversized := bytes.Repeat([]byte("a"), maxPayloadSize+1)
	if err := c.Publish("blindbridge/status/x", oversized, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload: expected ErrPublishFailed, got %v", err)
	}

	if err := c.Publish("blindbridge/status/x", []byte("x"), false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected client: expected ErrNotConnected, got %v", err)
	}
}
