package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ytget/yt-remote/internal/model"
)

// VideoView is the analyzed-media card
type VideoView struct {
	Title       string
	Description string
	TypeLabel   string // "Single Video" or "Playlist (N videos)"
	Thumbnail   string // empty for playlists
	Duration    string // empty for playlists or unknown durations
	Qualities   []string
	IsPlaylist  bool
}

// RenderVideoInfo builds the card for an analyze result. Playlists keep only
// the default quality choices since the server picks the best stream for
// every entry.
func RenderVideoInfo(info *model.VideoInfo) VideoView {
	if info == nil {
		return VideoView{Qualities: QualityOptions(nil)}
	}

	if info.IsPlaylist() {
		return VideoView{
			Title:       info.Title,
			Description: info.Description,
			TypeLabel:   fmt.Sprintf("Playlist (%d videos)", info.VideoCount),
			Qualities:   QualityOptions(nil),
			IsPlaylist:  true,
		}
	}

	return VideoView{
		Title:       info.Title,
		Description: info.Description,
		TypeLabel:   "Single Video",
		Thumbnail:   info.Thumbnail,
		Duration:    FormatDuration(info.DurationSeconds()),
		Qualities:   QualityOptions(info.AvailableQualities),
	}
}

// QualityOptions returns "highest", the available labels sorted by their
// numeric prefix (largest first, labels without a number last) and "lowest".
// Empty and duplicate labels are dropped; the input is not modified.
func QualityOptions(available []string) []string {
	type label struct {
		text  string
		value int
		ok    bool
	}

	seen := map[string]bool{model.QualityHighest: true, model.QualityLowest: true}
	labels := make([]label, 0, len(available))
	for _, q := range available {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		value, ok := numericPrefix(q)
		labels = append(labels, label{text: q, value: value, ok: ok})
	}

	sort.SliceStable(labels, func(i, j int) bool {
		if labels[i].ok != labels[j].ok {
			return labels[i].ok
		}
		return labels[i].value > labels[j].value
	})

	options := make([]string, 0, len(labels)+2)
	options = append(options, model.QualityHighest)
	for _, l := range labels {
		options = append(options, l.text)
	}
	return append(options, model.QualityLowest)
}

// numericPrefix parses the leading digits of s ("1080p" -> 1080)
func numericPrefix(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
