package config

import (
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/yt-remote/internal/model"
	"github.com/ytget/yt-remote/internal/platform"
)

// AppID identifies the application's preference store. The console front
// end opens the same store without a window.
const AppID = "com.ytget.yt-remote"

// EnvServerURL overrides the stored server URL
const EnvServerURL = "YT_REMOTE_SERVER"

// Settings keys for Fyne preferences
const (
	KeyServerURL          = "server_url"
	KeyPollIntervalMs     = "poll_interval_ms"
	KeyRequestTimeoutSec  = "request_timeout_sec"
	KeyRequestsPerSecond  = "requests_per_second"
	KeyDefaultQuality     = "default_quality"
	KeyDefaultType        = "default_type"
	KeyDownloadDir        = "download_directory"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultServerURL          = "http://localhost:5000"
	DefaultPollInterval       = time.Second
	DefaultRequestTimeout     = 30 * time.Second
	DefaultRequestsPerSecond  = 10
	DefaultQuality            = model.QualityHighest
	DefaultType               = model.DownloadTypeVideo
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true
)

// Limits applied by the setters
const (
	MinPollInterval      = 250 * time.Millisecond
	MaxPollInterval      = 10 * time.Second
	MinRequestTimeout    = time.Second
	MaxRequestTimeout    = 5 * time.Minute
	MinRequestsPerSecond = 1
	MaxRequestsPerSecond = 100
)

// Overrides are per-run values from flags or the environment. They win over
// stored preferences and are never written back.
type Overrides struct {
	ServerURL    string
	PollInterval time.Duration
}

// ResolveOverrides merges flag values with the environment; flags win
func ResolveOverrides(flagServer string, flagPoll time.Duration, getenv func(string) string) Overrides {
	o := Overrides{
		ServerURL:    strings.TrimSpace(flagServer),
		PollInterval: flagPoll,
	}
	if o.ServerURL == "" && getenv != nil {
		o.ServerURL = strings.TrimSpace(getenv(EnvServerURL))
	}
	if o.PollInterval > 0 {
		o.PollInterval = clampDuration(o.PollInterval, MinPollInterval, MaxPollInterval)
	}
	return o
}

// Settings manages application configuration
type Settings struct {
	app fyne.App

	mu        sync.RWMutex
	overrides Overrides
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// SetOverrides installs per-run overrides
func (s *Settings) SetOverrides(o Overrides) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = o
}

// Overrides returns the active per-run overrides
func (s *Settings) Overrides() Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overrides
}

// GetServerURL returns the server base URL, honouring overrides
func (s *Settings) GetServerURL() string {
	if o := s.Overrides(); o.ServerURL != "" {
		return o.ServerURL
	}
	serverURL := s.app.Preferences().String(KeyServerURL)
	if serverURL == "" {
		s.SetServerURL(DefaultServerURL)
		return DefaultServerURL
	}
	return serverURL
}

// SetServerURL stores the server base URL; empty restores the default
func (s *Settings) SetServerURL(serverURL string) {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	s.app.Preferences().SetString(KeyServerURL, serverURL)
}

// GetPollInterval returns how often the current download is polled
func (s *Settings) GetPollInterval() time.Duration {
	if o := s.Overrides(); o.PollInterval > 0 {
		return o.PollInterval
	}
	ms := s.app.Preferences().Int(KeyPollIntervalMs)
	if ms <= 0 {
		s.SetPollInterval(DefaultPollInterval)
		return DefaultPollInterval
	}
	return clampDuration(time.Duration(ms)*time.Millisecond, MinPollInterval, MaxPollInterval)
}

// SetPollInterval stores the poll interval, clamped to 250ms..10s
func (s *Settings) SetPollInterval(d time.Duration) {
	d = clampDuration(d, MinPollInterval, MaxPollInterval)
	s.app.Preferences().SetInt(KeyPollIntervalMs, int(d/time.Millisecond))
}

// GetRequestTimeout returns the per-request timeout
func (s *Settings) GetRequestTimeout() time.Duration {
	sec := s.app.Preferences().Int(KeyRequestTimeoutSec)
	if sec <= 0 {
		s.SetRequestTimeout(DefaultRequestTimeout)
		return DefaultRequestTimeout
	}
	return clampDuration(time.Duration(sec)*time.Second, MinRequestTimeout, MaxRequestTimeout)
}

// SetRequestTimeout stores the per-request timeout, clamped to 1s..5m
func (s *Settings) SetRequestTimeout(d time.Duration) {
	d = clampDuration(d, MinRequestTimeout, MaxRequestTimeout)
	s.app.Preferences().SetInt(KeyRequestTimeoutSec, int(d/time.Second))
}

// GetRequestsPerSecond returns the client-side request rate limit
func (s *Settings) GetRequestsPerSecond() int {
	value := s.app.Preferences().Int(KeyRequestsPerSecond)
	if value <= 0 {
		s.SetRequestsPerSecond(DefaultRequestsPerSecond)
		return DefaultRequestsPerSecond
	}
	return value
}

// SetRequestsPerSecond stores the request rate limit, clamped to 1..100
func (s *Settings) SetRequestsPerSecond(value int) {
	if value < MinRequestsPerSecond {
		value = MinRequestsPerSecond
	}
	if value > MaxRequestsPerSecond {
		value = MaxRequestsPerSecond
	}
	s.app.Preferences().SetInt(KeyRequestsPerSecond, value)
}

// GetDefaultQuality returns the quality preselected after an analyze
func (s *Settings) GetDefaultQuality() string {
	quality := s.app.Preferences().String(KeyDefaultQuality)
	if quality == "" {
		s.SetDefaultQuality(DefaultQuality)
		return DefaultQuality
	}
	return quality
}

// SetDefaultQuality sets the preselected quality
func (s *Settings) SetDefaultQuality(quality string) {
	if quality == "" {
		quality = DefaultQuality
	}
	s.app.Preferences().SetString(KeyDefaultQuality, quality)
}

// GetDefaultType returns the preselected download type
func (s *Settings) GetDefaultType() model.DownloadType {
	value := model.DownloadType(s.app.Preferences().String(KeyDefaultType))
	if value != model.DownloadTypeVideo && value != model.DownloadTypeAudio {
		s.SetDefaultType(DefaultType)
		return DefaultType
	}
	return value
}

// SetDefaultType sets the preselected download type
func (s *Settings) SetDefaultType(value model.DownloadType) {
	if value != model.DownloadTypeAudio {
		value = model.DownloadTypeVideo
	}
	s.app.Preferences().SetString(KeyDefaultType, string(value))
}

// GetTypeOptions returns the download types offered in the UI
func (s *Settings) GetTypeOptions() []model.DownloadType {
	return []model.DownloadType{model.DownloadTypeVideo, model.DownloadTypeAudio}
}

// GetDownloadDirectory returns where saved files are written
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetAutoRevealOnComplete returns whether saved files are shown in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether saved files are shown in the file manager
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
