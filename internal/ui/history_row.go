package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-remote/internal/render"
)

// HistoryRow draws one finished download with Open and Save buttons
type HistoryRow struct {
	widget.BaseWidget

	item         render.HistoryItem
	localization *Localization

	titleLabel   *widget.Label
	dateLabel    *widget.Label
	detailsLabel *widget.Label
	sizeLabel    *widget.Label
	openBtn      *widget.Button
	saveBtn      *widget.Button

	onSave func(id string)
}

// NewHistoryRow creates an empty history row
func NewHistoryRow(localization *Localization) *HistoryRow {
	hr := &HistoryRow{localization: localization}
	hr.ExtendBaseWidget(hr)

	hr.titleLabel = widget.NewLabel("")
	hr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	hr.titleLabel.Truncation = fyne.TextTruncateEllipsis
	hr.dateLabel = widget.NewLabel("")
	hr.dateLabel.Alignment = fyne.TextAlignTrailing
	hr.detailsLabel = widget.NewLabel("")
	hr.sizeLabel = widget.NewLabel("")
	hr.sizeLabel.TextStyle = fyne.TextStyle{Monospace: true}

	hr.openBtn = widget.NewButton(localization.GetText(KeyOpen), func() {
		if hr.item.DownloadFile != nil {
			hr.item.DownloadFile()
		}
	})
	hr.openBtn.Importance = widget.HighImportance

	hr.saveBtn = widget.NewButton(localization.GetText(KeySave), func() {
		if hr.onSave != nil && hr.item.ID != "" {
			hr.onSave(hr.item.ID)
		}
	})

	return hr
}

// SetItem redraws the row from item
func (hr *HistoryRow) SetItem(item render.HistoryItem) {
	hr.item = item
	hr.titleLabel.SetText(item.Title)
	hr.dateLabel.SetText(item.Date)
	hr.detailsLabel.SetText(item.Details)
	hr.sizeLabel.SetText(item.FileSize)
	hr.openBtn.SetText(hr.localization.GetText(KeyOpen))
	hr.saveBtn.SetText(hr.localization.GetText(KeySave))
	hr.Refresh()
}

// SetOnSave sets what the Save button does
func (hr *HistoryRow) SetOnSave(onSave func(id string)) {
	hr.onSave = onSave
}

// CreateRenderer implements fyne.Widget
func (hr *HistoryRow) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewBorder(nil, nil, nil, hr.dateLabel, hr.titleLabel)
	details := container.NewHBox(hr.detailsLabel, widget.NewLabel(MiddleDotSeparator), hr.sizeLabel)
	buttons := container.NewHBox(hr.openBtn, hr.saveBtn)
	body := container.NewBorder(nil, nil, nil, container.NewCenter(buttons), container.NewVBox(header, details))
	return widget.NewSimpleRenderer(container.NewVBox(body, widget.NewSeparator()))
}
