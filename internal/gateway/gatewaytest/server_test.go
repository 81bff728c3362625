package gatewaytest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ytget/yt-remote/internal/model"
)

const videoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"bad json", "{", http.StatusBadRequest, "Invalid JSON"},
		{"empty url", `{"url": ""}`, http.StatusBadRequest, "URL is required"},
		{"not youtube", `{"url": "https://example.com/abc123"}`, http.StatusBadRequest, "Please provide a valid YouTube URL"},
		{"video", `{"url": "` + videoURL + `"}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			rec := do(t, s, http.MethodPost, "/get_video_info", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Body is not JSON: %v", err)
			}
			if tt.wantError != "" && body["error"] != tt.wantError {
				t.Errorf("Expected error %q, got %v", tt.wantError, body["error"])
			}
		})
	}
}

func TestJobWalksStepsIntoHistory(t *testing.T) {
	s := New()

	rec := do(t, s, http.MethodPost, "/download", `{"url": "`+videoURL+`", "type": "audio"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var started struct {
		DownloadID string `json:"download_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil || started.DownloadID == "" {
		t.Fatalf("Expected a download id, got %s", rec.Body.String())
	}

	var statuses []model.TaskStatus
	for i := 0; i < 5; i++ {
		rec = do(t, s, http.MethodGet, "/download_status/"+started.DownloadID, "")
		var task model.DownloadTask
		if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		statuses = append(statuses, task.Status)
	}

	want := []model.TaskStatus{
		model.TaskStatusQueued, model.TaskStatusDownloading, model.TaskStatusDownloading,
		model.TaskStatusCompleted, model.TaskStatusCompleted,
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("Poll %d: expected %s, got %s", i, want[i], statuses[i])
		}
	}

	rec = do(t, s, http.MethodGet, "/history", "")
	var history []model.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected one history entry after repeated completion, got %d", len(history))
	}
	if history[0].Filename != "Demo video.mp3" || history[0].Type != "audio" {
		t.Errorf("Unexpected history entry %+v", history[0])
	}

	rec = do(t, s, http.MethodGet, "/download_file/"+started.DownloadID, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Demo video.mp3") {
		t.Errorf("Unexpected file response %d %q", rec.Code, rec.Body.String())
	}
}

func TestFailAndRecover(t *testing.T) {
	s := New()
	s.Fail(RouteHistory, http.StatusInternalServerError, "")

	rec := do(t, s, http.MethodGet, "/history", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Header().Get("Content-Type"), "json") {
		t.Error("Failure without a message should be plain text")
	}

	s.Fail(RouteHistory, http.StatusBadRequest, "nope")
	rec = do(t, s, http.MethodGet, "/history", "")
	if !strings.Contains(rec.Body.String(), `"error":"nope"`) {
		t.Errorf("Expected JSON error body, got %q", rec.Body.String())
	}

	s.Recover(RouteHistory)
	rec = do(t, s, http.MethodGet, "/history", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 after Recover, got %d", rec.Code)
	}

	if got := s.Requests(RouteHistory); got != 3 {
		t.Errorf("Expected 3 history requests, got %d", got)
	}
	if s.LastRequestID() != "req-1" {
		t.Errorf("Expected request id to be recorded, got %q", s.LastRequestID())
	}
}

func TestCancelRemovesJob(t *testing.T) {
	s := New()
	s.AddTask(model.DownloadTask{ID: "q1", Status: model.TaskStatusDownloading})

	if rec := do(t, s, http.MethodDelete, "/delete_download/q1", ""); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/delete_download/q1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a second cancel, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/download_status/q1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a cancelled job, got %d", rec.Code)
	}
}

func TestStartServesOnLoopback(t *testing.T) {
	baseURL, stop, err := New().Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stop()

	resp, err := http.Get(baseURL + "/downloads")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
