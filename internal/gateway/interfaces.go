package gateway

import (
	"context"
	"io"

	"github.com/ytget/yt-remote/internal/model"
)

// Gateway defines the operations the client performs against the server.
type Gateway interface {
	AnalyzeVideo(ctx context.Context, url string) (*model.VideoInfo, error)
	StartDownload(ctx context.Context, req model.DownloadRequest) (string, error)
	DownloadStatus(ctx context.Context, id string) (*model.DownloadTask, error)
	History(ctx context.Context) ([]model.HistoryEntry, error)
	Queue(ctx context.Context) (map[string]*model.DownloadTask, error)
	CancelDownload(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error

	// FileURL returns the address a browser can open to fetch a finished file
	FileURL(id string) string

	// SaveFile streams a finished file into w and returns the bytes written
	SaveFile(ctx context.Context, id string, w io.Writer) (int64, error)
}

// Logger is the subset of *log.Logger the client writes to
type Logger interface {
	Printf(format string, v ...any)
}
