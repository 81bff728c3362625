package gateway

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/yt-remote/internal/apperrors"
	"github.com/ytget/yt-remote/internal/gateway/gatewaytest"
	"github.com/ytget/yt-remote/internal/model"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newTestClient(t *testing.T, handler http.Handler, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 1000
		opts.Burst = 100
	}
	client, err := NewClient(srv.URL+"/", opts)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"http with port", "http://localhost:5000", false},
		{"https trailing slash", "https://example.com/", false},
		{"missing scheme", "localhost:5000", true},
		{"unsupported scheme", "ftp://example.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL, Options{})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestBaseURLNormalization(t *testing.T) {
	client, err := NewClient("http://localhost:5000/", Options{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if got := client.FileURL("abc"); got != "http://localhost:5000/download_file/abc" {
		t.Errorf("FileURL() = %q", got)
	}

	if err := client.SetBaseURL("http://10.0.0.2:8080"); err != nil {
		t.Fatalf("SetBaseURL() error = %v", err)
	}
	if got := client.BaseURL(); got != "http://10.0.0.2:8080" {
		t.Errorf("BaseURL() = %q after SetBaseURL", got)
	}
	if err := client.SetBaseURL("not a url"); err == nil {
		t.Error("Expected error for invalid base URL")
	}
}

func TestAnalyzeVideo(t *testing.T) {
	backend := gatewaytest.New()
	client := newTestClient(t, backend, Options{})

	info, err := client.AnalyzeVideo(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("AnalyzeVideo() error = %v", err)
	}
	if info.IsPlaylist() {
		t.Error("Expected a single video")
	}
	if info.DurationSeconds() != 212 {
		t.Errorf("Expected duration 212, got %d", info.DurationSeconds())
	}
	if len(info.AvailableQualities) != 4 {
		t.Errorf("Expected 4 qualities, got %v", info.AvailableQualities)
	}

	playlist, err := client.AnalyzeVideo(context.Background(), "https://www.youtube.com/playlist?list=PL123")
	if err != nil {
		t.Fatalf("AnalyzeVideo(playlist) error = %v", err)
	}
	if !playlist.IsPlaylist() || playlist.VideoCount != 3 {
		t.Errorf("Expected playlist with 3 videos, got %+v", playlist)
	}
}

func TestAnalyzeVideoRemoteError(t *testing.T) {
	backend := gatewaytest.New()
	client := newTestClient(t, backend, Options{})

	info, err := client.AnalyzeVideo(context.Background(), "https://example.com/abc123")
	if info != nil {
		t.Errorf("Expected nil info on error, got %+v", info)
	}
	if !apperrors.IsRemote(err) {
		t.Fatalf("Expected remote error, got %v", err)
	}

	appErr := err.(*apperrors.Error)
	if appErr.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", appErr.Status)
	}
	if got := apperrors.UserMessage(err); got != "Please provide a valid YouTube URL" {
		t.Errorf("Expected server message verbatim, got %q", got)
	}
	if appErr.Op != OpAnalyze {
		t.Errorf("Expected op %q, got %q", OpAnalyze, appErr.Op)
	}
}

func TestRemoteErrorFallbackMessages(t *testing.T) {
	tests := []struct {
		route string
		call  func(c *Client) error
		want  string
	}{
		{gatewaytest.RouteAnalyze, func(c *Client) error { _, err := c.AnalyzeVideo(context.Background(), testVideoURL); return err }, "Failed to analyze video"},
		{gatewaytest.RouteDownload, func(c *Client) error {
			_, err := c.StartDownload(context.Background(), model.DownloadRequest{URL: testVideoURL})
			return err
		}, "Failed to start download"},
		{gatewaytest.RouteCancel, func(c *Client) error { return c.CancelDownload(context.Background(), "x") }, "Failed to cancel download"},
		{gatewaytest.RouteClearHistory, func(c *Client) error { return c.ClearHistory(context.Background()) }, "Failed to clear history"},
		{gatewaytest.RouteHistory, func(c *Client) error { _, err := c.History(context.Background()); return err }, "Failed to load history"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			backend := gatewaytest.New()
			backend.Fail(tt.route, http.StatusInternalServerError, "")
			client := newTestClient(t, backend, Options{})

			err := tt.call(client)
			if !apperrors.IsRemote(err) {
				t.Fatalf("Expected remote error, got %v", err)
			}
			if got := apperrors.UserMessage(err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		baseURL := srv.URL
		srv.Close()

		client, err := NewClient(baseURL, Options{Logger: log.New(io.Discard, "", 0)})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		_, err = client.History(context.Background())
		if !apperrors.IsTransport(err) {
			t.Fatalf("Expected transport error, got %v", err)
		}
		if got := apperrors.UserMessage(err); got != apperrors.MsgNetworkError {
			t.Errorf("UserMessage() = %q", got)
		}
	})

	t.Run("undecodable body", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, "<html>not json</html>")
		}), Options{})

		_, err := client.DownloadStatus(context.Background(), "abc")
		if !apperrors.IsTransport(err) {
			t.Errorf("Expected transport error, got %v", err)
		}
	})

	t.Run("missing download id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"started"}`)
		}), Options{})

		_, err := client.StartDownload(context.Background(), model.DownloadRequest{URL: testVideoURL})
		if !apperrors.IsTransport(err) {
			t.Errorf("Expected transport error, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}), Options{Timeout: 20 * time.Millisecond})

		_, err := client.Queue(context.Background())
		if !apperrors.IsTransport(err) {
			t.Errorf("Expected transport error on timeout, got %v", err)
		}
	})

	t.Run("panic in transport", func(t *testing.T) {
		client, err := NewClient("http://localhost:5000", Options{
			Logger: log.New(io.Discard, "", 0),
			HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
				panic("boom")
			})},
		})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		err = client.ClearHistory(context.Background())
		if !apperrors.IsTransport(err) {
			t.Errorf("Expected panic to become a transport error, got %v", err)
		}
	})
}

func TestDownloadLifecycle(t *testing.T) {
	backend := gatewaytest.New()
	client := newTestClient(t, backend, Options{})
	ctx := context.Background()

	id, err := client.StartDownload(ctx, model.DownloadRequest{URL: testVideoURL, Quality: "720p", Type: model.DownloadTypeVideo})
	if err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected uuid download id, got %q", id)
	}

	want := []model.TaskStatus{
		model.TaskStatusQueued,
		model.TaskStatusDownloading,
		model.TaskStatusDownloading,
		model.TaskStatusCompleted,
	}
	var task *model.DownloadTask
	for i, status := range want {
		task, err = client.DownloadStatus(ctx, id)
		if err != nil {
			t.Fatalf("DownloadStatus() poll %d error = %v", i, err)
		}
		if task.Status != status {
			t.Errorf("Poll %d: expected %s, got %s", i, status, task.Status)
		}
	}
	if task.ID != id {
		t.Errorf("Expected task id %q, got %q", id, task.ID)
	}
	if !task.IsArchived() {
		t.Error("Expected completed task to carry completed_at")
	}

	history, err := client.History(ctx)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 || history[0].ID != id || history[0].Quality != "720p" {
		t.Errorf("Unexpected history: %+v", history)
	}

	queue, err := client.Queue(ctx)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}
	if queued, ok := queue[id]; !ok || queued.ID != id {
		t.Errorf("Expected task %q in queue, got %v", id, queue)
	}

	var buf bytes.Buffer
	n, err := client.SaveFile(ctx, id, &buf)
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if n == 0 || int64(buf.Len()) != n {
		t.Errorf("SaveFile() wrote %d bytes, buffer has %d", n, buf.Len())
	}
	if !strings.Contains(buf.String(), "Demo video") {
		t.Errorf("Unexpected file content %q", buf.String())
	}

	if err := client.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	history, err = client.History(ctx)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if history == nil || len(history) != 0 {
		t.Errorf("Expected empty non-nil history after clear, got %v", history)
	}
}

func TestDownloadStatusNotFound(t *testing.T) {
	client := newTestClient(t, gatewaytest.New(), Options{})

	_, err := client.DownloadStatus(context.Background(), "missing")
	if !apperrors.IsRemote(err) {
		t.Fatalf("Expected remote error, got %v", err)
	}
	if got := apperrors.UserMessage(err); got != "Download not found" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestCancelDownload(t *testing.T) {
	backend := gatewaytest.New()
	client := newTestClient(t, backend, Options{})
	ctx := context.Background()

	id, err := client.StartDownload(ctx, model.DownloadRequest{URL: testVideoURL})
	if err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	if err := client.CancelDownload(ctx, id); err != nil {
		t.Fatalf("CancelDownload() error = %v", err)
	}

	queue, err := client.Queue(ctx)
	if err != nil {
		t.Fatalf("Queue() error = %v", err)
	}
	if _, ok := queue[id]; ok {
		t.Error("Expected cancelled task to be gone from the queue")
	}

	if err := client.CancelDownload(ctx, id); !apperrors.IsRemote(err) {
		t.Errorf("Expected remote error cancelling twice, got %v", err)
	}
}

func TestSaveFileNotReady(t *testing.T) {
	backend := gatewaytest.New()
	client := newTestClient(t, backend, Options{})
	ctx := context.Background()

	id, err := client.StartDownload(ctx, model.DownloadRequest{URL: testVideoURL})
	if err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}

	var buf bytes.Buffer
	n, err := client.SaveFile(ctx, id, &buf)
	if !apperrors.IsRemote(err) {
		t.Fatalf("Expected remote error for unfinished file, got %v", err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %d bytes", n)
	}
}

func TestRequestIDHeader(t *testing.T) {
	backend := gatewaytest.New()
	client := newTestClient(t, backend, Options{})

	if _, err := client.History(context.Background()); err != nil {
		t.Fatalf("History() error = %v", err)
	}
	first := backend.LastRequestID()
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("Expected uuid request id, got %q", first)
	}

	if _, err := client.History(context.Background()); err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if backend.LastRequestID() == first {
		t.Error("Expected a fresh request id per request")
	}
}

func TestRemoteErrorCarriesRequestID(t *testing.T) {
	backend := gatewaytest.New()
	backend.Fail(gatewaytest.RouteQueue, http.StatusServiceUnavailable, "maintenance")
	client := newTestClient(t, backend, Options{})

	_, err := client.Queue(context.Background())
	appErr, ok := err.(*apperrors.Error)
	if !ok {
		t.Fatalf("Expected *apperrors.Error, got %T", err)
	}
	if appErr.RequestID == "" || appErr.RequestID != backend.LastRequestID() {
		t.Errorf("Expected request id %q on error, got %q", backend.LastRequestID(), appErr.RequestID)
	}
	if appErr.Message != "maintenance" {
		t.Errorf("Expected message 'maintenance', got %q", appErr.Message)
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	client := newTestClient(t, gatewaytest.New(), Options{RequestsPerSecond: 0.001, Burst: 1})
	ctx := context.Background()

	if _, err := client.History(ctx); err != nil {
		t.Fatalf("First request should use the burst, got %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := client.History(ctx); !apperrors.IsTransport(err) {
		t.Errorf("Expected transport error while waiting on the limiter, got %v", err)
	}
}
