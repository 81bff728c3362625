package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-remote/internal/render"
)

// TaskRow draws one render.ProgressView: title, status badge, progress bar,
// playlist counter and error text. The queue list uses it with a Cancel
// button and a start time; the progress modal uses it bare.
type TaskRow struct {
	widget.BaseWidget

	view         render.ProgressView
	started      string
	localization *Localization

	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	playlistLabel *widget.Label
	errorLabel    *widget.Label
	startedLabel  *widget.Label
	cancelBtn     *widget.Button

	onCancel func()
}

// NewTaskRow creates a task row. withCancel adds the Cancel button.
func NewTaskRow(localization *Localization, withCancel bool) *TaskRow {
	tr := &TaskRow{localization: localization}
	tr.ExtendBaseWidget(tr)
	tr.createUI(withCancel)
	tr.SetView(render.RenderDownloadProgress(nil))
	return tr
}

// SetView redraws the row from view
func (tr *TaskRow) SetView(view render.ProgressView) {
	tr.view = view
	tr.updateFromView()
	tr.Refresh()
}

// SetStarted sets the "Started: ..." line; empty hides it
func (tr *TaskRow) SetStarted(started string) {
	tr.started = started
	tr.startedLabel.SetText(started)
	if started == "" {
		tr.startedLabel.Hide()
	} else {
		tr.startedLabel.Show()
	}
}

// SetOnCancel sets what the Cancel button does
func (tr *TaskRow) SetOnCancel(onCancel func()) {
	tr.onCancel = onCancel
}

// View returns the last drawn view
func (tr *TaskRow) View() render.ProgressView {
	return tr.view
}

func (tr *TaskRow) createUI(withCancel bool) {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.TextStyle = fyne.TextStyle{Monospace: true}

	tr.playlistLabel = widget.NewLabel("")
	tr.errorLabel = widget.NewLabel("")
	tr.errorLabel.Importance = widget.DangerImportance
	tr.errorLabel.Wrapping = fyne.TextWrapWord

	tr.startedLabel = widget.NewLabel("")
	tr.startedLabel.TextStyle = fyne.TextStyle{Italic: true}
	tr.startedLabel.Hide()

	if withCancel {
		tr.cancelBtn = widget.NewButton(tr.localization.GetText(KeyCancel), func() {
			if tr.onCancel != nil {
				tr.onCancel()
			}
		})
		tr.cancelBtn.Importance = widget.DangerImportance
	}
}

func (tr *TaskRow) updateFromView() {
	view := tr.view

	tr.titleLabel.SetText(view.Title)

	tr.statusLabel.Importance = BadgeImportance(view.Badge)
	tr.statusLabel.SetText(BadgeIcon(view.Badge) + " " + view.StatusLabel)

	if view.ShowProgress {
		tr.progressBar.SetValue(view.Fraction)
		tr.progressLabel.SetText(view.ProgressText)
		tr.progressBar.Show()
		tr.progressLabel.Show()
	} else {
		tr.progressBar.Hide()
		tr.progressLabel.Hide()
	}

	if view.ShowPlaylist {
		text := IconPlaylist + " " + view.PlaylistTitle
		if view.PlaylistText != "" {
			text += MiddleDotSeparator + view.PlaylistText
		}
		tr.playlistLabel.SetText(text)
		tr.playlistLabel.Show()
	} else {
		tr.playlistLabel.Hide()
	}

	if view.Error != "" {
		tr.errorLabel.SetText(view.Error)
		tr.errorLabel.Show()
	} else {
		tr.errorLabel.Hide()
	}

	if tr.cancelBtn != nil {
		tr.cancelBtn.SetText(tr.localization.GetText(KeyCancel))
	}
}

// CreateRenderer implements fyne.Widget
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	return &taskRowRenderer{taskRow: tr}
}

type taskRowRenderer struct {
	taskRow *TaskRow
	layout  *fyne.Container
}

func (r *taskRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Resize(size)
}

func (r *taskRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	size := r.layout.MinSize()
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	return size
}

func (r *taskRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

func (r *taskRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

func (r *taskRowRenderer) Destroy() {}

// createLayout puts title and status on the first line, the progress bar
// with its text below, then the optional playlist, error and start lines.
// The Cancel button is pinned to the right edge.
func (r *taskRowRenderer) createLayout() {
	tr := r.taskRow

	header := container.NewBorder(nil, nil, nil, tr.statusLabel, tr.titleLabel)
	progress := container.NewBorder(nil, nil, nil, tr.progressLabel, tr.progressBar)
	body := container.NewVBox(header, progress, tr.playlistLabel, tr.errorLabel, tr.startedLabel)

	var main fyne.CanvasObject = body
	if tr.cancelBtn != nil {
		main = container.NewBorder(nil, nil, nil, container.NewCenter(tr.cancelBtn), body)
	}

	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(RowMinWidth, 0))

	r.layout = container.NewVBox(container.NewStack(spacer, main), widget.NewSeparator())
}
