package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconFolder   = "📁"
	IconClose    = "×"
	IconError    = "❌"
	IconSuccess  = "✔"
	IconInfo     = "ℹ"
	IconQueued   = "⏳"
	IconPlaylist = "🎵"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	WindowWidth  float32 = 800
	WindowHeight float32 = 600

	ThumbnailWidth  float32 = 160
	ThumbnailHeight float32 = 90

	ProgressDialogWidth  float32 = 420
	ProgressDialogHeight float32 = 180

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 72

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 480
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 80
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)
