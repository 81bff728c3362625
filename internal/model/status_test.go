package model

import "testing"

func TestTaskStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusQueued, false},
		{TaskStatusDownloading, false},
		{TaskStatusProcessing, false},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
		{TaskStatus("starting"), false},
		{TaskStatus(""), false},
	}

	for _, test := range tests {
		result := test.status.IsTerminal()
		if result != test.expected {
			t.Errorf("IsTerminal() for %q = %v, expected %v", test.status, result, test.expected)
		}
		if test.status.IsActive() == result {
			t.Errorf("IsActive() for %q should be the inverse of IsTerminal()", test.status)
		}
	}
}

func TestTaskStatus_Title(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected string
	}{
		{TaskStatusQueued, "Queued"},
		{TaskStatusDownloading, "Downloading"},
		{TaskStatusError, "Error"},
		{TaskStatus(""), ""},
	}

	for _, test := range tests {
		if got := test.status.Title(); got != test.expected {
			t.Errorf("Title() for %q = %q, expected %q", test.status, got, test.expected)
		}
	}
}

func TestTaskStatus_String(t *testing.T) {
	if TaskStatusProcessing.String() != "processing" {
		t.Errorf("Expected 'processing', got %q", TaskStatusProcessing.String())
	}
}
