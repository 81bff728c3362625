package model

// HistoryEntry is one finished download as recorded by the server
type HistoryEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	DownloadedAt Timestamp `json:"downloaded_at"`
	Quality      string    `json:"quality"`
	Type         string    `json:"type"`
	FileSize     string    `json:"file_size,omitempty"`

	// Older servers record the file name instead of a title
	URL        string `json:"url,omitempty"`
	Filename   string `json:"filename,omitempty"`
	IsPlaylist bool   `json:"is_playlist,omitempty"`
}

// GetDisplayTitle returns the title, falling back to the file name and URL
func (he *HistoryEntry) GetDisplayTitle() string {
	if he.Title != "" {
		return he.Title
	}
	if he.Filename != "" {
		return he.Filename
	}
	return he.URL
}
