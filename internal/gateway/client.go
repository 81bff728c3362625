package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ytget/yt-remote/internal/apperrors"
	"github.com/ytget/yt-remote/internal/model"
)

// Operation names, used in errors and log lines
const (
	OpAnalyze      = "analyze"
	OpDownload     = "download"
	OpStatus       = "status"
	OpHistory      = "history"
	OpQueue        = "queue"
	OpCancel       = "cancel"
	OpClearHistory = "clear_history"
	OpFile         = "file"
)

// Fallback messages for non-2xx answers without a usable {error} body
var fallbackMessages = map[string]string{
	OpAnalyze:      "Failed to analyze video",
	OpDownload:     "Failed to start download",
	OpStatus:       "Failed to get download status",
	OpHistory:      "Failed to load history",
	OpQueue:        "Failed to load downloads",
	OpCancel:       "Failed to cancel download",
	OpClearHistory: "Failed to clear history",
	OpFile:         "Failed to download file",
}

// Defaults for Options
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 5
)

// RequestIDHeader carries the per-request uuid
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 64 << 10

// Options configures a Client. Zero values select the defaults.
type Options struct {
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Logger            Logger
}

// Client talks to the download server over HTTP
type Client struct {
	mu      sync.RWMutex
	baseURL string

	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  Logger
}

// Ensure Client implements Gateway
var _ Gateway = (*Client)(nil)

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts Options) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Client{
		baseURL: normalized,
		http:    opts.HTTPClient,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:  opts.Logger,
	}, nil
}

// BaseURL returns the server address requests are sent to
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points the client at another server
func (c *Client) SetBaseURL(baseURL string) error {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.baseURL = normalized
	c.mu.Unlock()
	return nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: expected http(s)://host[:port]", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// AnalyzeVideo fetches metadata for a video or playlist URL
func (c *Client) AnalyzeVideo(ctx context.Context, videoURL string) (*model.VideoInfo, error) {
	var info model.VideoInfo
	body := map[string]string{"url": videoURL}
	if err := c.doJSON(ctx, call{op: OpAnalyze, method: http.MethodPost, path: "/get_video_info", body: body}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// StartDownload asks the server to start a job and returns its id
func (c *Client) StartDownload(ctx context.Context, req model.DownloadRequest) (string, error) {
	var resp struct {
		DownloadID string `json:"download_id"`
	}
	if err := c.doJSON(ctx, call{op: OpDownload, method: http.MethodPost, path: "/download", body: req}, &resp); err != nil {
		return "", err
	}
	if resp.DownloadID == "" {
		return "", apperrors.Transport(OpDownload, errors.New("response has no download_id"))
	}
	return resp.DownloadID, nil
}

// DownloadStatus returns the current state of one job
func (c *Client) DownloadStatus(ctx context.Context, id string) (*model.DownloadTask, error) {
	var task model.DownloadTask
	if err := c.doJSON(ctx, call{op: OpStatus, method: http.MethodGet, path: "/download_status/" + url.PathEscape(id)}, &task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = id
	}
	return &task, nil
}

// History returns finished downloads in server order (oldest first)
func (c *Client) History(ctx context.Context) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if err := c.doJSON(ctx, call{op: OpHistory, method: http.MethodGet, path: "/history"}, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// Queue returns every job the server still tracks, keyed by id
func (c *Client) Queue(ctx context.Context) (map[string]*model.DownloadTask, error) {
	var tasks map[string]*model.DownloadTask
	if err := c.doJSON(ctx, call{op: OpQueue, method: http.MethodGet, path: "/downloads"}, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = map[string]*model.DownloadTask{}
	}
	for id, task := range tasks {
		if task == nil {
			delete(tasks, id)
			continue
		}
		if task.ID == "" {
			task.ID = id
		}
	}
	return tasks, nil
}

// CancelDownload removes a job on the server
func (c *Client) CancelDownload(ctx context.Context, id string) error {
	return c.doJSON(ctx, call{op: OpCancel, method: http.MethodDelete, path: "/delete_download/" + url.PathEscape(id)}, nil)
}

// ClearHistory wipes the server-side history
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.doJSON(ctx, call{op: OpClearHistory, method: http.MethodPost, path: "/clear_history"}, nil)
}

// FileURL returns the download address of a finished file
func (c *Client) FileURL(id string) string {
	return c.BaseURL() + "/download_file/" + url.PathEscape(id)
}

// SaveFile streams a finished file into w. No per-request timeout applies,
// the caller's context bounds the transfer.
func (c *Client) SaveFile(ctx context.Context, id string, w io.Writer) (written int64, err error) {
	req := call{op: OpFile, method: http.MethodGet, path: "/download_file/" + url.PathEscape(id), stream: true}
	requestID := uuid.NewString()
	defer c.recoverInto(req, requestID, &err)

	resp, cancel, err := c.send(ctx, req, requestID)
	if err != nil {
		return 0, err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, c.remoteError(req, resp, requestID)
	}

	written, err = io.Copy(w, resp.Body)
	if err != nil {
		c.logger.Printf("[gateway] %s %s request_id=%s copy failed after %d bytes: %v", req.method, req.path, requestID, written, err)
		return written, apperrors.Transport(req.op, err).WithRequestID(requestID)
	}
	return written, nil
}

// call describes one request
type call struct {
	op     string
	method string
	path   string
	body   any
	stream bool // body is consumed by the caller, no per-request timeout
}

// doJSON performs the request and decodes a 2xx body into out (if non-nil)
func (c *Client) doJSON(ctx context.Context, req call, out any) (err error) {
	requestID := uuid.NewString()
	defer c.recoverInto(req, requestID, &err)

	resp, cancel, err := c.send(ctx, req, requestID)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.remoteError(req, resp, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Printf("[gateway] %s %s request_id=%s decode failed: %v", req.method, req.path, requestID, err)
		return apperrors.Transport(req.op, fmt.Errorf("decode response: %w", err)).WithRequestID(requestID)
	}
	return nil
}

// send waits for the limiter, builds the request and executes it. The
// returned cancel releases the per-request timeout and must be called once
// the body is consumed.
func (c *Client) send(ctx context.Context, req call, requestID string) (*http.Response, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Printf("[gateway] %s %s request_id=%s rate limiter: %v", req.method, req.path, requestID, err)
		return nil, nil, apperrors.Transport(req.op, err).WithRequestID(requestID)
	}

	cancel := context.CancelFunc(func() {})
	if !req.stream {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			cancel()
			return nil, nil, apperrors.Transport(req.op, fmt.Errorf("encode request: %w", err)).WithRequestID(requestID)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.BaseURL()+req.path, body)
	if err != nil {
		cancel()
		return nil, nil, apperrors.Transport(req.op, err).WithRequestID(requestID)
	}
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		cancel()
		c.logger.Printf("[gateway] %s %s request_id=%s failed after %v: %v", req.method, req.path, requestID, time.Since(start), err)
		return nil, nil, apperrors.Transport(req.op, err).WithRequestID(requestID)
	}
	c.logger.Printf("[gateway] %s %s request_id=%s status=%d in %v", req.method, req.path, requestID, resp.StatusCode, time.Since(start))
	return resp, cancel, nil
}

// remoteError builds a KindRemote error from a non-2xx response
func (c *Client) remoteError(req call, resp *http.Response, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		message = strings.TrimSpace(payload.Error)
	}
	if message == "" {
		message = fallbackMessages[req.op]
	}

	return apperrors.Remote(req.op, resp.StatusCode, message).WithRequestID(requestID)
}

// recoverInto maps a panic raised while talking to the server to a
// transport error so nothing escapes the gateway
func (c *Client) recoverInto(req call, requestID string, errp *error) {
	if r := recover(); r != nil {
		c.logger.Printf("[gateway] %s %s request_id=%s panic: %v", req.method, req.path, requestID, r)
		*errp = apperrors.Transport(req.op, fmt.Errorf("panic: %v", r)).WithRequestID(requestID)
	}
}
