// Package session implements the user actions of the client: analyze a URL,
// start and cancel downloads, clear history, switch tabs and save files. It
// wires the gateway, the renderer and the tracker to whichever front end
// implements View.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/yt-remote/internal/apperrors"
	"github.com/ytget/yt-remote/internal/gateway"
	"github.com/ytget/yt-remote/internal/model"
	"github.com/ytget/yt-remote/internal/platform"
	"github.com/ytget/yt-remote/internal/render"
	"github.com/ytget/yt-remote/internal/tracker"
	"github.com/ytget/yt-remote/internal/validate"
)

// ErrBusy is returned when the same kind of request is already in flight
var ErrBusy = errors.New("request already in progress")

// Notification texts
const (
	MsgDownloadStarted   = "Download started successfully!"
	MsgDownloadCancelled = "Download cancelled"
	MsgHistoryCleared    = "History cleared successfully"
	MsgSaveFailed        = "Failed to save file"
)

// Tab identifies a tab of the shell
type Tab string

const (
	TabDownload Tab = "download"
	TabHistory  Tab = "history"
	TabQueue    Tab = "queue"
)

// View is what a front end must draw. Methods may be called from any
// goroutine.
type View interface {
	tracker.ProgressView

	ShowVideo(view render.VideoView)
	ShowHistory(view render.HistoryView)
	ShowQueue(view render.QueueView)

	// SetAnalyzing and SetStarting toggle the loading state of the buttons
	SetAnalyzing(loading bool)
	SetStarting(loading bool)

	OpenURL(url string)
	RevealFile(path string)
}

// Notifier shows transient notifications
type Notifier = tracker.Notifier

// Preferences supplies the settings the session reads at action time
type Preferences interface {
	GetDownloadDirectory() string
	GetAutoRevealOnComplete() bool
}

// Options configures an App. Zero values select the defaults.
type Options struct {
	Context      context.Context
	PollInterval time.Duration
	CloseDelay   time.Duration
	Scheduler    tracker.Scheduler
	Logger       tracker.Logger
	Preferences  Preferences
}

// App is the session orchestrator
type App struct {
	ctx      context.Context
	gw       gateway.Gateway
	view     View
	notifier Notifier
	tracker  *tracker.Controller
	prefs    Preferences
	logger   tracker.Logger

	analyzing atomic.Bool
	starting  atomic.Bool

	mu      sync.Mutex
	video   *model.VideoInfo
	history []model.HistoryEntry
}

// New creates an App. Nothing is fetched until Start.
func New(gw gateway.Gateway, view View, notifier Notifier, opts Options) *App {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	a := &App{
		ctx:      opts.Context,
		gw:       gw,
		view:     view,
		notifier: notifier,
		prefs:    opts.Preferences,
		logger:   opts.Logger,
	}
	a.tracker = tracker.New(gw, view, notifier, a, tracker.Config{
		PollInterval: opts.PollInterval,
		CloseDelay:   opts.CloseDelay,
		Scheduler:    opts.Scheduler,
		Logger:       opts.Logger,
	})
	return a
}

// Tracker exposes the polling controller
func (a *App) Tracker() *tracker.Controller {
	return a.tracker
}

// Start loads history and queue once
func (a *App) Start() {
	a.RefreshHistory()
	a.RefreshQueue()
}

// Analyze validates input and shows the metadata of the media it points to
func (a *App) Analyze(input string) (*model.VideoInfo, error) {
	url := strings.TrimSpace(input)
	if url == "" {
		return nil, a.fail(apperrors.Validation(apperrors.MsgEnterURL))
	}
	if !validate.IsValidURL(url) {
		return nil, a.fail(apperrors.Validation(apperrors.MsgInvalidURL))
	}

	if !a.analyzing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.analyzing.Store(false)

	a.view.SetAnalyzing(true)
	defer a.view.SetAnalyzing(false)

	info, err := a.gw.AnalyzeVideo(a.ctx, url)
	if err != nil {
		return nil, a.fail(err)
	}

	a.mu.Lock()
	a.video = info
	a.mu.Unlock()

	a.view.ShowVideo(render.RenderVideoInfo(info))
	return info, nil
}

// Video returns the last analyze result, or nil
func (a *App) Video() *model.VideoInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.video
}

// StartDownload asks the server to download input and starts tracking the
// new job. Empty quality and type select highest and video.
func (a *App) StartDownload(input, quality string, kind model.DownloadType) (string, error) {
	url := strings.TrimSpace(input)
	if url == "" {
		return "", a.fail(apperrors.Validation(apperrors.MsgEnterURL))
	}
	if quality == "" {
		quality = model.QualityHighest
	}
	if kind == "" {
		kind = model.DownloadTypeVideo
	}

	if !a.starting.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer a.starting.Store(false)

	a.view.SetStarting(true)
	defer a.view.SetStarting(false)

	id, err := a.gw.StartDownload(a.ctx, model.DownloadRequest{URL: url, Quality: quality, Type: kind})
	if err != nil {
		return "", a.fail(err)
	}

	a.logger.Printf("[session] download %s started for %s (%s, %s)", id, url, quality, kind)
	a.tracker.StartTracking(id)
	a.notifier.Notify(render.LevelSuccess, MsgDownloadStarted)
	return id, nil
}

// CancelDownload stops tracking id (if tracked) and then deletes it on the
// server
func (a *App) CancelDownload(id string) error {
	a.tracker.CancelTracking(id)

	if err := a.gw.CancelDownload(a.ctx, id); err != nil {
		return a.fail(err)
	}

	a.notifier.Notify(render.LevelSuccess, MsgDownloadCancelled)
	a.RefreshQueue()
	return nil
}

// ClearHistory wipes the server history. Confirmation is the caller's job.
func (a *App) ClearHistory() error {
	if err := a.gw.ClearHistory(a.ctx); err != nil {
		return a.fail(err)
	}

	a.notifier.Notify(render.LevelSuccess, MsgHistoryCleared)
	a.RefreshHistory()
	return nil
}

// CloseProgress closes the progress view and stops polling
func (a *App) CloseProgress() {
	a.tracker.CloseTracking()
}

// SwitchTab reloads the content of the history and queue tabs
func (a *App) SwitchTab(tab Tab) {
	switch tab {
	case TabHistory:
		a.RefreshHistory()
	case TabQueue:
		a.RefreshQueue()
	}
}

// RefreshHistory reloads the history tab. Failures are logged only.
func (a *App) RefreshHistory() {
	entries, err := a.gw.History(a.ctx)
	if err != nil {
		a.logger.Printf("[session] loading history: %v", err)
		return
	}

	a.mu.Lock()
	a.history = entries
	a.mu.Unlock()

	a.view.ShowHistory(render.RenderHistory(entries, actions{a}))
}

// RefreshQueue reloads the queue tab. Failures are logged only.
func (a *App) RefreshQueue() {
	tasks, err := a.gw.Queue(a.ctx)
	if err != nil {
		a.logger.Printf("[session] loading queue: %v", err)
		return
	}

	a.view.ShowQueue(render.RenderQueue(tasks, actions{a}))
}

// OpenFile opens the server's download link for id in the browser
func (a *App) OpenFile(id string) {
	a.view.OpenURL(a.gw.FileURL(id))
}

// SaveFile downloads the finished file of id into the download directory
// and returns its path
func (a *App) SaveFile(id string) (string, error) {
	dir := a.downloadDir()
	f, err := platform.CreateUniqueFile(dir, a.filenameFor(id))
	if err != nil {
		a.logger.Printf("[session] save %s: %v", id, err)
		a.notifier.Notify(render.LevelError, MsgSaveFailed)
		return "", fmt.Errorf("create file: %w", err)
	}
	path := f.Name()

	n, err := a.gw.SaveFile(a.ctx, id, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", path, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		if apperrors.KindOf(err) == "" {
			a.logger.Printf("[session] save %s: %v", id, err)
			a.notifier.Notify(render.LevelError, MsgSaveFailed)
			return "", err
		}
		return "", a.fail(err)
	}

	a.logger.Printf("[session] saved %s (%d bytes) to %s", id, n, path)
	a.notifier.Notify(render.LevelSuccess, "Saved to "+path)
	if a.prefs != nil && a.prefs.GetAutoRevealOnComplete() {
		a.view.RevealFile(path)
	}
	return path, nil
}

func (a *App) downloadDir() string {
	if a.prefs != nil {
		if dir := a.prefs.GetDownloadDirectory(); dir != "" {
			return dir
		}
	}
	if dir, err := platform.GetHomeDownloadsDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

// filenameFor picks a local name from the last loaded history, falling back
// to the id
func (a *App) filenameFor(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, entry := range a.history {
		if entry.ID != id {
			continue
		}
		if entry.Filename != "" {
			return platform.SanitizeFilename(filepath.Base(entry.Filename), id)
		}
		if entry.Title != "" {
			ext := ".mp4"
			if entry.Type == string(model.DownloadTypeAudio) {
				ext = ".mp3"
			}
			return platform.SanitizeFilename(entry.Title+ext, id)
		}
	}
	return platform.SanitizeFilename(id, "download")
}

// fail notifies the user about err and returns it
func (a *App) fail(err error) error {
	if !apperrors.IsValidation(err) {
		a.logger.Printf("[session] %v", err)
	}
	a.notifier.Notify(render.LevelError, apperrors.UserMessage(err))
	return err
}

// actions adapts App to render.Actions
type actions struct {
	app *App
}

func (ac actions) CancelDownload(id string) {
	_ = ac.app.CancelDownload(id)
}

func (ac actions) DownloadFile(id string) {
	ac.app.OpenFile(id)
}
