// Package gatewaytest provides an in-memory download server speaking the same
// HTTP contract as the real one. Tests mount it with httptest; the binary's
// demo mode serves it on a loopback port.
package gatewaytest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ytget/yt-remote/internal/model"
	"github.com/ytget/yt-remote/internal/validate"
)

// Route names, usable with Fail and Requests
const (
	RouteAnalyze      = "analyze"
	RouteDownload     = "download"
	RouteStatus       = "status"
	RouteHistory      = "history"
	RouteQueue        = "queue"
	RouteCancel       = "cancel"
	RouteClearHistory = "clear_history"
	RouteFile         = "file"
)

// Step is one state a fake job reports. Each status poll reports the next
// step; the last one repeats.
type Step struct {
	Status          model.TaskStatus
	Progress        *float64
	Downloaded      string
	TotalSize       string
	CompletedVideos int
	Error           string
}

// DefaultSteps walks a job from queued to completed in four polls
func DefaultSteps() []Step {
	return []Step{
		{Status: model.TaskStatusQueued},
		{Status: model.TaskStatusDownloading, Progress: model.Float64(30), Downloaded: "3.0 MB", TotalSize: "10.0 MB"},
		{Status: model.TaskStatusDownloading, Progress: model.Float64(80), Downloaded: "8.0 MB", TotalSize: "10.0 MB"},
		{Status: model.TaskStatusCompleted, Progress: model.Float64(100), Downloaded: "10.0 MB", TotalSize: "10.0 MB"},
	}
}

type failure struct {
	status  int
	message string // empty means a plain-text body
}

type job struct {
	task    model.DownloadTask
	steps   []Step
	next    int
	quality string
	kind    model.DownloadType
}

// Server is the fake backend
type Server struct {
	router *mux.Router

	mu        sync.Mutex
	jobs      map[string]*job
	history   []model.HistoryEntry
	videos    map[string]*model.VideoInfo
	steps     []Step
	failures  map[string]failure
	requests  map[string]int
	lastReqID string
	now       func() time.Time
}

// New creates a server with the default step script
func New() *Server {
	s := &Server{
		jobs:     make(map[string]*job),
		videos:   make(map[string]*model.VideoInfo),
		steps:    DefaultSteps(),
		failures: make(map[string]failure),
		requests: make(map[string]int),
		now:      time.Now,
	}

	r := mux.NewRouter()
	r.Use(s.middleware)
	r.HandleFunc("/get_video_info", s.handleAnalyze).Methods(http.MethodPost).Name(RouteAnalyze)
	r.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost).Name(RouteDownload)
	r.HandleFunc("/download_status/{id}", s.handleStatus).Methods(http.MethodGet).Name(RouteStatus)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet).Name(RouteHistory)
	r.HandleFunc("/downloads", s.handleQueue).Methods(http.MethodGet).Name(RouteQueue)
	r.HandleFunc("/delete_download/{id}", s.handleCancel).Methods(http.MethodDelete).Name(RouteCancel)
	r.HandleFunc("/clear_history", s.handleClearHistory).Methods(http.MethodPost).Name(RouteClearHistory)
	r.HandleFunc("/download_file/{id}", s.handleFile).Methods(http.MethodGet).Name(RouteFile)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves on a loopback port and returns the base URL and a stop func
func (s *Server) Start() (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("demo server stopped: %v\n", err)
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return "http://" + ln.Addr().String(), stop, nil
}

// SetSteps replaces the script used by jobs created afterwards
func (s *Server) SetSteps(steps ...Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append([]Step(nil), steps...)
}

// SetVideo registers the metadata returned for url
func (s *Server) SetVideo(url string, info *model.VideoInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[url] = info
}

// Fail makes every request to route answer with status. An empty message
// produces a plain-text body instead of {"error": message}.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover undoes Fail for route
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Requests returns how many requests reached route
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// LastRequestID returns the X-Request-ID of the most recent request
func (s *Server) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReqID
}

// AddHistory appends entries to the history
func (s *Server) AddHistory(entries ...model.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entries...)
}

// AddTask seeds a job that stays at the given state
func (s *Server) AddTask(task model.DownloadTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[task.ID] = &job{task: task}
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.requests[name]++
		s.lastReqID = r.Header.Get("X-Request-ID")
		f, failing := s.failures[name]
		s.mu.Unlock()

		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}

		if failing {
			if f.message == "" {
				http.Error(w, http.StatusText(f.status), f.status)
				return
			}
			writeJSON(w, f.status, map[string]string{"error": f.message})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if msg := checkURL(req.URL); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	writeJSON(w, http.StatusOK, s.lookupVideo(req.URL))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req model.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if msg := checkURL(req.URL); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	if req.Quality == "" {
		req.Quality = model.QualityHighest
	}
	if req.Type == "" {
		req.Type = model.DownloadTypeVideo
	}

	info := s.lookupVideo(req.URL)
	ext := "mp4"
	if req.Type == model.DownloadTypeAudio {
		ext = "mp3"
	}

	id := uuid.NewString()
	s.mu.Lock()
	j := &job{
		task: model.DownloadTask{
			ID:        id,
			Status:    model.TaskStatusQueued,
			Title:     info.Title,
			URL:       req.URL,
			Filename:  info.Title + "." + ext,
			StartedAt: model.NewTimestamp(s.now()),
		},
		steps:   append([]Step(nil), s.steps...),
		quality: req.Quality,
		kind:    req.Type,
	}
	if info.IsPlaylist() {
		j.task.PlaylistTitle = info.Title
		j.task.TotalVideos = info.VideoCount
	}
	s.jobs[id] = j
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"download_id": id,
		"filename":    j.task.Filename,
		"status":      "started",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Download not found"})
		return
	}
	s.advance(j)
	task := j.task
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, task)
}

// advance applies the next scripted step. Caller holds s.mu.
func (s *Server) advance(j *job) {
	if len(j.steps) == 0 {
		return
	}
	if j.next >= len(j.steps) {
		j.next = len(j.steps) - 1
	}
	step := j.steps[j.next]
	j.next++

	wasTerminal := j.task.Status.IsTerminal()
	j.task.Status = step.Status
	j.task.Progress = step.Progress
	j.task.Downloaded = step.Downloaded
	j.task.TotalSize = step.TotalSize
	j.task.Error = step.Error
	if j.task.TotalVideos > 0 {
		j.task.CompletedVideos = step.CompletedVideos
	}

	if step.Status == model.TaskStatusCompleted && !wasTerminal {
		now := model.NewTimestamp(s.now())
		j.task.CompletedAt = &now
		s.history = append(s.history, model.HistoryEntry{
			ID:           j.task.ID,
			Title:        j.task.Title,
			DownloadedAt: now,
			Quality:      j.quality,
			Type:         string(j.kind),
			FileSize:     step.TotalSize,
			URL:          j.task.URL,
			Filename:     j.task.Filename,
			IsPlaylist:   j.task.TotalVideos > 0,
		})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	entries := append([]model.HistoryEntry{}, s.history...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tasks := make(map[string]model.DownloadTask, len(s.jobs))
	for id, j := range s.jobs {
		tasks[id] = j.task
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.jobs[id]
	delete(s.jobs, id)
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Download not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Download cancelled"})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	filename, ok := "", false
	if j, found := s.jobs[id]; found && j.task.Status == model.TaskStatusCompleted {
		filename, ok = j.task.Filename, true
	}
	if !ok {
		for _, entry := range s.history {
			if entry.ID == id {
				filename, ok = entry.Filename, true
				break
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "demo content of %s\n", filename)
}

func (s *Server) lookupVideo(url string) *model.VideoInfo {
	s.mu.Lock()
	info, ok := s.videos[url]
	s.mu.Unlock()
	if ok {
		return info
	}

	if validate.IsPlaylistURL(url) {
		return &model.VideoInfo{
			Type:        model.MediaTypePlaylist,
			Title:       "Demo playlist",
			Description: "A playlist served by the demo backend",
			VideoCount:  3,
		}
	}
	return &model.VideoInfo{
		Type:               model.MediaTypeVideo,
		Title:              "Demo video",
		Description:        "A video served by the demo backend",
		Duration:           212,
		AvailableQualities: []string{"720p", "1080p", "480p", "360p"},
	}
}

func checkURL(url string) string {
	if strings.TrimSpace(url) == "" {
		return "URL is required"
	}
	if !validate.IsValidURL(url) {
		return "Please provide a valid YouTube URL"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
