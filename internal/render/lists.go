package render

import (
	"fmt"
	"sort"

	"github.com/ytget/yt-remote/internal/model"
)

// Empty-state messages
const (
	EmptyHistoryMessage = "No download history yet."
	EmptyQueueMessage   = "No active downloads."
)

// Actions receives the per-item buttons of the history and queue lists
type Actions interface {
	CancelDownload(id string)
	DownloadFile(id string)
}

// HistoryItem is one row of the history tab
type HistoryItem struct {
	ID       string
	Title    string
	Date     string
	Details  string // "Quality: 720p | Type: video"
	FileSize string

	DownloadFile func()
}

// HistoryView is the history tab; Items is empty when EmptyMessage is set
type HistoryView struct {
	EmptyMessage string
	Items        []HistoryItem
}

// QueueItem is one row of the queue tab
type QueueItem struct {
	Progress ProgressView
	Started  string // "Started: 2006-01-02 15:04:05"

	Cancel func()
}

// QueueView is the queue tab; Items is empty when EmptyMessage is set
type QueueView struct {
	EmptyMessage string
	Items        []QueueItem
}

// RenderHistory lists entries newest first (the server sends oldest first)
func RenderHistory(entries []model.HistoryEntry, actions Actions) HistoryView {
	if len(entries) == 0 {
		return HistoryView{EmptyMessage: EmptyHistoryMessage}
	}

	items := make([]HistoryItem, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		id := entry.ID
		size := entry.FileSize
		if size == "" {
			size = "Unknown"
		}
		items = append(items, HistoryItem{
			ID:           id,
			Title:        entry.GetDisplayTitle(),
			Date:         FormatTimestamp(entry.DownloadedAt.Time),
			Details:      fmt.Sprintf("Quality: %s | Type: %s", entry.Quality, entry.Type),
			FileSize:     size,
			DownloadFile: func() { downloadFile(actions, id) },
		})
	}
	return HistoryView{Items: items}
}

// RenderQueue lists tasks that have not been archived into history: every
// non-completed task (errors included) and completed tasks still lacking a
// completion time. Rows are ordered by start time, then id.
func RenderQueue(tasks map[string]*model.DownloadTask, actions Actions) QueueView {
	type entry struct {
		id   string
		task *model.DownloadTask
	}

	active := make([]entry, 0, len(tasks))
	for id, task := range tasks {
		if task == nil || !isQueued(task) {
			continue
		}
		active = append(active, entry{id: id, task: task})
	}
	if len(active) == 0 {
		return QueueView{EmptyMessage: EmptyQueueMessage}
	}

	sort.Slice(active, func(i, j int) bool {
		a, b := active[i].task.StartedAt.Time, active[j].task.StartedAt.Time
		if !a.Equal(b) {
			return a.Before(b)
		}
		return active[i].id < active[j].id
	})

	items := make([]QueueItem, 0, len(active))
	for _, e := range active {
		id := e.id
		view := RenderDownloadProgress(e.task)
		view.ID = id
		started := ""
		if date := FormatTimestamp(e.task.StartedAt.Time); date != "" {
			started = "Started: " + date
		}
		items = append(items, QueueItem{
			Progress: view,
			Started:  started,
			Cancel:   func() { cancelDownload(actions, id) },
		})
	}
	return QueueView{Items: items}
}

func isQueued(task *model.DownloadTask) bool {
	return task.Status != model.TaskStatusCompleted || !task.IsArchived()
}

func downloadFile(actions Actions, id string) {
	if actions != nil {
		actions.DownloadFile(id)
	}
}

func cancelDownload(actions Actions, id string) {
	if actions != nil {
		actions.CancelDownload(id)
	}
}
