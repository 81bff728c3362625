package model

import (
	"strconv"
	"strings"
)

// DownloadType selects what the server extracts from the source
type DownloadType string

const (
	DownloadTypeVideo DownloadType = "video"
	DownloadTypeAudio DownloadType = "audio"
)

// Quality labels that are always offered regardless of what a video reports
const (
	QualityHighest = "highest"
	QualityLowest  = "lowest"
)

// DownloadRequest is the body of a start-download call
type DownloadRequest struct {
	URL     string       `json:"url"`
	Quality string       `json:"quality"`
	Type    DownloadType `json:"type"`
}

// DownloadTask is the server's view of one download job. Everything except
// ID and Status is optional; pointer fields distinguish "absent" from zero.
type DownloadTask struct {
	ID              string     `json:"id,omitempty"`
	Status          TaskStatus `json:"status"`
	Title           string     `json:"title,omitempty"`
	Progress        *float64   `json:"progress,omitempty"`   // 0 to 100
	Downloaded      string     `json:"downloaded,omitempty"` // human readable, e.g. "12.3 MB"
	TotalSize       string     `json:"total_size,omitempty"`
	PlaylistTitle   string     `json:"playlist_title,omitempty"`
	TotalVideos     int        `json:"total_videos,omitempty"`
	CompletedVideos int        `json:"completed_videos,omitempty"`
	Error           string     `json:"error,omitempty"`
	StartedAt       Timestamp  `json:"started_at"`
	CompletedAt     *Timestamp `json:"completed_at,omitempty"`

	// Sent by some servers; shown as a title fallback
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// HasProgress reports whether the server sent a progress value
func (dt *DownloadTask) HasProgress() bool {
	return dt.Progress != nil
}

// ProgressPercent returns progress clamped to 0..100, or 0 when absent
func (dt *DownloadTask) ProgressPercent() float64 {
	if dt.Progress == nil {
		return 0
	}
	p := *dt.Progress
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ProgressString formats the progress without trailing zeros ("30", "45.5")
func (dt *DownloadTask) ProgressString() string {
	if dt.Progress == nil {
		return ""
	}
	return strconv.FormatFloat(*dt.Progress, 'f', -1, 64)
}

// IsArchived reports whether a completed task has been stamped with a
// completion time, i.e. it already belongs to history.
func (dt *DownloadTask) IsArchived() bool {
	return dt.CompletedAt != nil && !dt.CompletedAt.IsZero()
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.Filename != "" {
		name := dt.Filename
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}

	return dt.URL
}

// Float64 returns a pointer to v, for building tasks with a progress value
func Float64(v float64) *float64 {
	return &v
}
