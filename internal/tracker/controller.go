package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ytget/yt-remote/internal/model"
	"github.com/ytget/yt-remote/internal/render"
)

// Defaults for Config
const (
	DefaultPollInterval = time.Second
	DefaultCloseDelay   = 2 * time.Second
)

// Notification texts
const (
	MsgCompleted     = "Download completed successfully!"
	MsgFailedDefault = "Download failed"
)

// StatusFetcher polls the server for one task
type StatusFetcher interface {
	DownloadStatus(ctx context.Context, id string) (*model.DownloadTask, error)
}

// ProgressView is the progress modal. The controller calls it while holding
// its lock, so implementations must not call back into the controller.
type ProgressView interface {
	OpenProgress(id string)
	ShowProgress(view render.ProgressView)
	CloseProgress()
}

// Notifier shows transient notifications
type Notifier interface {
	Notify(level render.Level, message string)
}

// Refresher reloads the lists that change when a task finishes
type Refresher interface {
	RefreshHistory()
	RefreshQueue()
}

// Logger is the subset of *log.Logger the controller writes to
type Logger interface {
	Printf(format string, v ...any)
}

// Config tunes the controller. Zero values select the defaults.
type Config struct {
	PollInterval time.Duration
	CloseDelay   time.Duration
	Scheduler    Scheduler
	Logger       Logger
}

// Controller polls the status of the current download, mirrors it into the
// progress view and reacts once when the task reaches a terminal status.
//
// Each StartTracking opens a new session identified by a generation number.
// Timer callbacks and poll results carry the generation they were issued
// for and are dropped when it is no longer current.
type Controller struct {
	fetcher   StatusFetcher
	view      ProgressView
	notifier  Notifier
	refresher Refresher
	scheduler Scheduler
	logger    Logger

	interval   time.Duration
	closeDelay time.Duration

	mu          sync.Mutex
	currentID   string
	generation  uint64
	finished    bool
	stopPolling func()
	stopClose   func()
	cancelCtx   context.CancelFunc
}

// New creates an idle controller
func New(fetcher StatusFetcher, view ProgressView, notifier Notifier, refresher Refresher, cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	return &Controller{
		fetcher:    fetcher,
		view:       view,
		notifier:   notifier,
		refresher:  refresher,
		scheduler:  cfg.Scheduler,
		logger:     cfg.Logger,
		interval:   cfg.PollInterval,
		closeDelay: cfg.CloseDelay,
	}
}

// StartTracking makes id the current download, opens the progress view and
// starts polling. Any previous timer is cancelled before the new one is armed.
func (c *Controller) StartTracking(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endSessionLocked()
	c.stopCloseLocked()

	c.generation++
	gen := c.generation
	c.currentID = id
	c.finished = false

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelCtx = cancel

	c.view.OpenProgress(id)
	c.stopPolling = c.scheduler.Every(c.interval, func() { c.tick(ctx, gen) })
	c.logger.Printf("[tracker] tracking %s every %v", id, c.interval)
}

// CloseTracking stops polling and closes the progress view. The current id
// is kept so CurrentID still reports the last tracked download.
func (c *Controller) CloseTracking() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endSessionLocked()
	c.stopCloseLocked()
	c.view.CloseProgress()
}

// CancelTracking stops polling if id is the tracked download and reports
// whether it was. Call it before telling the server to cancel so no poll
// observes the deleted task.
func (c *Controller) CancelTracking(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || id != c.currentID || c.stopPolling == nil {
		return false
	}
	c.endSessionLocked()
	c.logger.Printf("[tracker] tracking of %s cancelled", id)
	return true
}

// CurrentID returns the last download passed to StartTracking
func (c *Controller) CurrentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// IsTracking reports whether a poll timer is armed
func (c *Controller) IsTracking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopPolling != nil
}

// tick polls once for session gen
func (c *Controller) tick(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.finished || c.currentID == "" {
		c.mu.Unlock()
		return
	}
	id := c.currentID
	c.mu.Unlock()

	task, err := c.fetcher.DownloadStatus(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Printf("[tracker] status of %s: %v", id, err)
		}
		return
	}

	c.mu.Lock()
	if gen != c.generation || c.finished {
		c.mu.Unlock()
		c.logger.Printf("[tracker] dropping stale status of %s", id)
		return
	}

	terminal := task.Status.IsTerminal()
	if terminal {
		c.finished = true
		c.stopPollingLocked()
		if task.Status == model.TaskStatusCompleted {
			c.stopClose = c.scheduler.After(c.closeDelay, func() { c.closeAfterCompletion(gen) })
		}
	}
	c.view.ShowProgress(render.RenderDownloadProgress(task))
	c.mu.Unlock()

	if !terminal {
		return
	}

	c.logger.Printf("[tracker] %s finished with status %s", id, task.Status)
	if task.Status == model.TaskStatusCompleted {
		c.notifier.Notify(render.LevelSuccess, MsgCompleted)
	} else {
		message := task.Error
		if message == "" {
			message = MsgFailedDefault
		}
		c.notifier.Notify(render.LevelError, message)
	}

	c.refresher.RefreshHistory()
	c.refresher.RefreshQueue()
}

// closeAfterCompletion closes the view unless another session started since
func (c *Controller) closeAfterCompletion(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.stopClose = nil
	c.view.CloseProgress()
}

// endSessionLocked stops polling and invalidates in-flight results
func (c *Controller) endSessionLocked() {
	c.stopPollingLocked()
	if c.cancelCtx != nil {
		c.cancelCtx()
		c.cancelCtx = nil
	}
	c.generation++
}

func (c *Controller) stopPollingLocked() {
	if c.stopPolling != nil {
		c.stopPolling()
		c.stopPolling = nil
	}
}

func (c *Controller) stopCloseLocked() {
	if c.stopClose != nil {
		c.stopClose()
		c.stopClose = nil
	}
}
