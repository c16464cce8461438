package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDevice_JSONFields(t *testing.T) {
	device := Device{
		ID:       "dev-1",
		Name:     "D1",
		User:     "pi",
		Host:     "h",
		IP:       "1.2.3.4",
		Number:   "1",
		Password: "pw",
		Tasks: []Task{
			{ID: "task-1", Name: "Feed", Number: 1, Time: "9:00 AM", Description: "Feed fish"},
		},
		TaskCount: 1,
	}

	data, err := json.Marshal(device)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	jsonStr := string(data)

	expectedFields := []string{
		`"id":"dev-1"`,
		`"name":"D1"`,
		`"piUser":"pi"`,
		`"piHost":"h"`,
		`"ip":"1.2.3.4"`,
		`"piNumber":"1"`,
		`"password":"pw"`,
		`"taskCount":1`,
		`"number":1`,
		`"time":"9:00 AM"`,
		`"description":"Feed fish"`,
	}

	for _, field := range expectedFields {
		if !strings.Contains(jsonStr, field) {
			t.Errorf("JSON missing field %q in %s", field, jsonStr)
		}
	}

	if strings.Contains(jsonStr, "audioFilePath") {
		t.Errorf("empty audioFilePath should be omitted: %s", jsonStr)
	}
}

func TestDevice_Equal(t *testing.T) {
	a := Device{ID: "same", Name: "one"}
	b := Device{ID: "same", Name: "two"}
	c := Device{ID: "other", Name: "one"}

	if !a.Equal(b) {
		t.Error("devices with the same ID should be equal")
	}

	if a.Equal(c) {
		t.Error("devices with different IDs should not be equal")
	}
}

func TestTask_Equal(t *testing.T) {
	a := Task{ID: "t", Name: "Feed", Number: 1}
	b := Task{ID: "t", Name: "Water", Number: 3}

	if !a.Equal(b) {
		t.Error("tasks with the same ID should be equal")
	}
}

func TestDevice_CloneIsDeep(t *testing.T) {
	original := Device{ID: "d", Tasks: []Task{{ID: "t", Name: "Feed", Number: 1}}, TaskCount: 1}

	clone := original.Clone()
	clone.Tasks[0].Name = "changed"

	if original.Tasks[0].Name != "Feed" {
		t.Errorf("Clone shares task storage: original name = %q", original.Tasks[0].Name)
	}
}

func TestDevice_ApplyTrimsName(t *testing.T) {
	var d Device

	d.Apply(DeviceFields{Name: "  D1 ", User: "pi"})

	if d.Name != "D1" {
		t.Errorf("Name = %q, want %q", d.Name, "D1")
	}

	if d.User != "pi" {
		t.Errorf("User = %q, want %q", d.User, "pi")
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"9:00 AM", "9:00 AM"},
		{"9:00AM", "9:00 AM"},
		{"09:00", "9:00 AM"},
		{"21:30", "9:30 PM"},
		{" 7:05 pm ", "7:05 PM"},
		{"", ""},
		{"after lunch", "after lunch"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTime(tt.input); got != tt.expected {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	if got := FormatTime(ts); got != "9:00 AM" {
		t.Errorf("FormatTime() = %q, want %q", got, "9:00 AM")
	}
}
