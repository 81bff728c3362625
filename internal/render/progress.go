package render

import (
	"fmt"

	"github.com/ytget/yt-remote/internal/model"
)

// Badge is the colour class of a status badge
type Badge string

const (
	BadgeNeutral Badge = "neutral" // queued and unknown statuses
	BadgeActive  Badge = "active"  // downloading, processing
	BadgeSuccess Badge = "success"
	BadgeError   Badge = "error"
)

// DefaultTitle is shown until the server knows the media title
const DefaultTitle = "Processing..."

// ProgressView is the state of one task as drawn in the progress modal and
// the queue list. Sections whose Show flag is false are not drawn.
type ProgressView struct {
	ID          string
	Title       string
	Status      model.TaskStatus
	StatusLabel string // "Status: Downloading"
	Badge       Badge

	ShowProgress bool
	Fraction     float64 // 0..1 for progress bars
	ProgressText string  // "30% (3.0 MB/10.0 MB)"

	ShowPlaylist  bool
	PlaylistTitle string
	PlaylistText  string // "2/5 videos", empty when the total is unknown

	Error string
}

// RenderDownloadProgress builds the progress view of task. Only Status is
// assumed present; every other section appears when its field does.
func RenderDownloadProgress(task *model.DownloadTask) ProgressView {
	if task == nil {
		return ProgressView{Title: DefaultTitle, Badge: BadgeNeutral}
	}

	view := ProgressView{
		ID:          task.ID,
		Title:       task.Title,
		Status:      task.Status,
		StatusLabel: "Status: " + task.Status.Title(),
		Badge:       badgeFor(task.Status),
		Error:       task.Error,
	}
	if view.Title == "" {
		view.Title = DefaultTitle
	}

	if task.HasProgress() {
		view.ShowProgress = true
		view.Fraction = task.ProgressPercent() / 100
		view.ProgressText = task.ProgressString() + "%"
		if task.Downloaded != "" {
			view.ProgressText += fmt.Sprintf(" (%s/%s)", task.Downloaded, task.TotalSize)
		}
	}

	if task.PlaylistTitle != "" {
		view.ShowPlaylist = true
		view.PlaylistTitle = task.PlaylistTitle
		if task.TotalVideos > 0 {
			view.PlaylistText = fmt.Sprintf("%d/%d videos", task.CompletedVideos, task.TotalVideos)
		}
	}

	return view
}

func badgeFor(status model.TaskStatus) Badge {
	switch status {
	case model.TaskStatusCompleted:
		return BadgeSuccess
	case model.TaskStatusError:
		return BadgeError
	case model.TaskStatusDownloading, model.TaskStatusProcessing:
		return BadgeActive
	default:
		return BadgeNeutral
	}
}
