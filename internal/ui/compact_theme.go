package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-remote/internal/render"
)

// CompactTheme defines a compact theme for the UI with reduced padding and font sizes
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

var (
	colorSuccess = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	colorError   = color.RGBA{R: 183, G: 28, B: 28, A: 255}
	colorWarning = color.RGBA{R: 255, G: 193, B: 7, A: 255}
	colorPrimary = color.RGBA{R: 25, G: 118, B: 210, A: 255}
)

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return colorSuccess
	case theme.ColorNameError:
		return colorError
	case theme.ColorNameWarning:
		return colorWarning
	case theme.ColorNamePrimary:
		return colorPrimary
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 250, G: 250, B: 250, A: 255}
	case theme.ColorNameForeground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{R: 33, G: 33, B: 33, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameSubHeadingText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}

// BadgeImportance maps a status badge to the label importance that colours it
func BadgeImportance(badge render.Badge) widget.Importance {
	switch badge {
	case render.BadgeSuccess:
		return widget.SuccessImportance
	case render.BadgeError:
		return widget.DangerImportance
	case render.BadgeActive:
		return widget.HighImportance
	default:
		return widget.MediumImportance
	}
}

// BadgeIcon returns the symbol shown in front of a status label
func BadgeIcon(badge render.Badge) string {
	switch badge {
	case render.BadgeSuccess:
		return IconSuccess
	case render.BadgeError:
		return IconError
	case render.BadgeActive:
		return IconPlay
	default:
		return IconQueued
	}
}

// LevelImportance maps a notification level to a label importance
func LevelImportance(level render.Level) widget.Importance {
	switch level {
	case render.LevelSuccess:
		return widget.SuccessImportance
	case render.LevelError:
		return widget.DangerImportance
	default:
		return widget.MediumImportance
	}
}

// LevelIcon returns the symbol shown in a toast of the given level
func LevelIcon(level render.Level) string {
	switch level {
	case render.LevelSuccess:
		return IconSuccess
	case render.LevelError:
		return IconError
	default:
		return IconInfo
	}
}
