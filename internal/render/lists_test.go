package render

import (
	"testing"
	"time"

	"github.com/ytget/yt-remote/internal/model"
)

type recordingActions struct {
	cancelled  []string
	downloaded []string
}

func (r *recordingActions) CancelDownload(id string) { r.cancelled = append(r.cancelled, id) }
func (r *recordingActions) DownloadFile(id string)   { r.downloaded = append(r.downloaded, id) }

func ts(minute int) model.Timestamp {
	return model.NewTimestamp(time.Date(2024, 1, 1, 12, minute, 0, 0, time.Local))
}

func TestRenderHistoryEmpty(t *testing.T) {
	for _, entries := range [][]model.HistoryEntry{nil, {}} {
		view := RenderHistory(entries, nil)
		if view.EmptyMessage != EmptyHistoryMessage {
			t.Errorf("Expected %q, got %q", EmptyHistoryMessage, view.EmptyMessage)
		}
		if len(view.Items) != 0 {
			t.Errorf("Expected no items, got %d", len(view.Items))
		}
	}
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	entries := []model.HistoryEntry{
		{ID: "a", Title: "First", DownloadedAt: ts(1), Quality: "720p", Type: "video", FileSize: "10 MB"},
		{ID: "b", Filename: "second.mp3", DownloadedAt: ts(2), Quality: "highest", Type: "audio"},
	}
	actions := &recordingActions{}

	view := RenderHistory(entries, actions)
	if view.EmptyMessage != "" {
		t.Errorf("Unexpected empty message %q", view.EmptyMessage)
	}
	if len(view.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(view.Items))
	}
	if view.Items[0].ID != "b" || view.Items[1].ID != "a" {
		t.Errorf("Expected newest first, got %s, %s", view.Items[0].ID, view.Items[1].ID)
	}
	if view.Items[0].Title != "second.mp3" {
		t.Errorf("Expected filename fallback title, got %q", view.Items[0].Title)
	}
	if view.Items[0].FileSize != "Unknown" {
		t.Errorf("Expected 'Unknown' file size, got %q", view.Items[0].FileSize)
	}
	if view.Items[1].Details != "Quality: 720p | Type: video" {
		t.Errorf("Unexpected details %q", view.Items[1].Details)
	}
	if view.Items[1].Date != "2024-01-01 12:01:00" {
		t.Errorf("Unexpected date %q", view.Items[1].Date)
	}
	if entries[0].ID != "a" {
		t.Error("Input slice was reordered")
	}

	view.Items[1].DownloadFile()
	if len(actions.downloaded) != 1 || actions.downloaded[0] != "a" {
		t.Errorf("Expected DownloadFile(a), got %v", actions.downloaded)
	}
}

func TestRenderQueueFilter(t *testing.T) {
	completedAt := ts(9)
	tasks := map[string]*model.DownloadTask{
		"archived": {Status: model.TaskStatusCompleted, StartedAt: ts(1), CompletedAt: &completedAt},
		"fresh":    {Status: model.TaskStatusCompleted, StartedAt: ts(2)},
		"running":  {Status: model.TaskStatusDownloading, StartedAt: ts(3), Progress: model.Float64(40)},
		"failed":   {Status: model.TaskStatusError, StartedAt: ts(4), Error: "disk full"},
		"nil":      nil,
	}
	actions := &recordingActions{}

	view := RenderQueue(tasks, actions)
	if len(view.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(view.Items))
	}

	wantOrder := []string{"fresh", "running", "failed"}
	for i, id := range wantOrder {
		if got := view.Items[i].Progress.ID; got != id {
			t.Errorf("Item %d: expected %q, got %q", i, id, got)
		}
	}
	if view.Items[1].Started != "Started: 2024-01-01 12:03:00" {
		t.Errorf("Unexpected started label %q", view.Items[1].Started)
	}

	view.Items[2].Cancel()
	if len(actions.cancelled) != 1 || actions.cancelled[0] != "failed" {
		t.Errorf("Expected CancelDownload(failed), got %v", actions.cancelled)
	}
}

func TestRenderQueueOrderTiesByID(t *testing.T) {
	tasks := map[string]*model.DownloadTask{
		"b": {Status: model.TaskStatusQueued, StartedAt: ts(1)},
		"a": {Status: model.TaskStatusQueued, StartedAt: ts(1)},
		"c": {Status: model.TaskStatusQueued},
	}

	view := RenderQueue(tasks, nil)
	got := []string{view.Items[0].Progress.ID, view.Items[1].Progress.ID, view.Items[2].Progress.ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order = %v, want %v", got, want)
		}
	}
	if view.Items[0].Started != "" {
		t.Errorf("Expected no started label for zero time, got %q", view.Items[0].Started)
	}

	// nil actions must not panic
	view.Items[0].Cancel()
}

func TestRenderQueueEmpty(t *testing.T) {
	completedAt := ts(5)
	view := RenderQueue(map[string]*model.DownloadTask{
		"done": {Status: model.TaskStatusCompleted, CompletedAt: &completedAt},
	}, nil)

	if view.EmptyMessage != EmptyQueueMessage {
		t.Errorf("Expected %q, got %q", EmptyQueueMessage, view.EmptyMessage)
	}
}
