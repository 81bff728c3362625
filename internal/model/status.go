package model

import "strings"

// TaskStatus represents the server-side status of a download task
type TaskStatus string

const (
	// TaskStatusQueued means the server accepted the task but has not started it
	TaskStatusQueued TaskStatus = "queued"

	// TaskStatusDownloading means media is being fetched
	TaskStatusDownloading TaskStatus = "downloading"

	// TaskStatusProcessing means the server is post-processing (merging, converting)
	TaskStatusProcessing TaskStatus = "processing"

	// TaskStatusCompleted means the file is ready
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusError means the task failed; the task's Error field holds the reason
	TaskStatusError TaskStatus = "error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsTerminal returns true once the task can no longer change (completed or error)
func (ts TaskStatus) IsTerminal() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

// IsActive returns true for any non-terminal status, including ones the
// client does not know about (the server reports "starting" briefly).
func (ts TaskStatus) IsActive() bool {
	return !ts.IsTerminal()
}

// Title returns the status with its first letter upper-cased ("Downloading")
func (ts TaskStatus) Title() string {
	s := string(ts)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
