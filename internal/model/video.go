package model

// MediaType distinguishes single videos from playlists in analyze results
type MediaType string

const (
	MediaTypeVideo    MediaType = "video"
	MediaTypePlaylist MediaType = "playlist"
)

// VideoInfo is the metadata returned by an analyze call. Duration and
// AvailableQualities are only set for videos, VideoCount only for playlists.
type VideoInfo struct {
	Type               MediaType `json:"type"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Thumbnail          string    `json:"thumbnail,omitempty"`
	Duration           float64   `json:"duration,omitempty"` // seconds
	AvailableQualities []string  `json:"available_qualities,omitempty"`
	VideoCount         int       `json:"video_count,omitempty"`
}

// IsPlaylist returns true when the analyzed URL points to a playlist
func (vi *VideoInfo) IsPlaylist() bool {
	return vi.Type == MediaTypePlaylist
}

// DurationSeconds returns the duration truncated to whole seconds
func (vi *VideoInfo) DurationSeconds() int {
	if vi.Duration <= 0 {
		return 0
	}
	return int(vi.Duration)
}
