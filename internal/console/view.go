package console

import (
	"log"
	"strings"

	"github.com/ytget/yt-remote/internal/platform"
	"github.com/ytget/yt-remote/internal/render"
)

// OpenProgress implements tracker.ProgressView
func (c *Console) OpenProgress(id string) {
	c.resetProgress()
	c.printf("%s\n", c.paint(colorBlue, "Tracking download "+id))
}

// ShowProgress prints a status line when it differs from the previous one
func (c *Console) ShowProgress(view render.ProgressView) {
	line := progressLine(view)

	c.progressMu.Lock()
	if line == c.lastProgress {
		c.progressMu.Unlock()
		return
	}
	c.lastProgress = line
	c.progressMu.Unlock()

	c.printf("  %s\n", c.paint(badgeColor(view.Badge), line))
}

// CloseProgress implements tracker.ProgressView
func (c *Console) CloseProgress() {
	c.resetProgress()
}

func (c *Console) resetProgress() {
	c.progressMu.Lock()
	c.lastProgress = ""
	c.progressMu.Unlock()
}

// progressLine renders one task on a single line:
// "Title · Status: Downloading · 30% (3.0 MB/10.0 MB) · Mix 2/5 videos"
func progressLine(view render.ProgressView) string {
	parts := []string{view.Title, view.StatusLabel}
	if view.ShowProgress {
		parts = append(parts, view.ProgressText)
	}
	if view.ShowPlaylist {
		playlist := view.PlaylistTitle
		if view.PlaylistText != "" {
			playlist += " " + view.PlaylistText
		}
		parts = append(parts, playlist)
	}
	if view.Error != "" {
		parts = append(parts, "Error: "+view.Error)
	}
	return strings.Join(parts, " · ")
}

// ShowVideo prints the analyze result
func (c *Console) ShowVideo(view render.VideoView) {
	var b strings.Builder
	b.WriteString(c.paint(colorBlue, view.Title) + "\n")
	b.WriteString("  " + view.TypeLabel)
	if view.Duration != "" {
		b.WriteString(" · " + view.Duration)
	}
	b.WriteString("\n")
	if view.Description != "" {
		b.WriteString("  " + firstLine(view.Description) + "\n")
	}
	b.WriteString("  Qualities: " + strings.Join(view.Qualities, ", ") + "\n")
	c.printf("%s", b.String())
}

// ShowHistory prints the history list
func (c *Console) ShowHistory(view render.HistoryView) {
	if view.EmptyMessage != "" {
		c.printf("%s\n", view.EmptyMessage)
		return
	}

	var b strings.Builder
	for _, item := range view.Items {
		b.WriteString(c.paint(colorGreen, item.ID) + "  " + item.Title + "\n")
		b.WriteString("    " + item.Date + " · " + item.Details + " · " + item.FileSize + "\n")
	}
	c.printf("%s", b.String())
}

// ShowQueue prints the active downloads
func (c *Console) ShowQueue(view render.QueueView) {
	if view.EmptyMessage != "" {
		c.printf("%s\n", view.EmptyMessage)
		return
	}

	var b strings.Builder
	for _, item := range view.Items {
		b.WriteString(c.paint(colorYellow, item.Progress.ID) + "  " + progressLine(item.Progress) + "\n")
		if item.Started != "" {
			b.WriteString("    " + item.Started + "\n")
		}
	}
	c.printf("%s", b.String())
}

// SetAnalyzing implements session.View
func (c *Console) SetAnalyzing(loading bool) {
	if loading {
		c.printf("Loading...\n")
	}
}

// SetStarting implements session.View
func (c *Console) SetStarting(loading bool) {
	if loading {
		c.printf("Loading...\n")
	}
}

// OpenURL opens rawURL in the browser, printing it when that fails
func (c *Console) OpenURL(rawURL string) {
	if err := platform.OpenURL(rawURL); err != nil {
		log.Printf("[console] opening %s: %v", rawURL, err)
		c.printf("Open this link: %s\n", rawURL)
	}
}

// RevealFile shows path in the system file manager
func (c *Console) RevealFile(path string) {
	if err := platform.OpenFileInManager(path); err != nil {
		log.Printf("[console] revealing %s: %v", path, err)
	}
}

// Notify prints a notification in the color of its level
func (c *Console) Notify(level render.Level, message string) {
	c.printf("%s\n", c.paint(levelColor(level), "["+string(level)+"] "+message))
}

func badgeColor(badge render.Badge) string {
	switch badge {
	case render.BadgeSuccess:
		return colorGreen
	case render.BadgeError:
		return colorRed
	case render.BadgeActive:
		return colorBlue
	default:
		return colorYellow
	}
}

func levelColor(level render.Level) string {
	switch level {
	case render.LevelSuccess:
		return colorGreen
	case render.LevelError:
		return colorRed
	default:
		return colorBlue
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
