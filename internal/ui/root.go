package ui

import (
	"errors"
	"log"
	"net/url"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-remote/internal/config"
	"github.com/ytget/yt-remote/internal/gateway"
	"github.com/ytget/yt-remote/internal/model"
	"github.com/ytget/yt-remote/internal/platform"
	"github.com/ytget/yt-remote/internal/render"
	"github.com/ytget/yt-remote/internal/session"
)

// baseURLSetter is implemented by gateways whose server can be switched at
// runtime
type baseURLSetter interface {
	SetBaseURL(baseURL string) error
}

// RootUI represents the main UI structure. It implements session.View and
// session.Notifier; every method may be called from any goroutine.
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	gw           gateway.Gateway
	session      *session.App
	settings     *config.Settings
	localization *Localization

	// run dispatches session calls off the UI goroutine
	run func(func())

	tabs        *container.AppTabs
	downloadTab *container.TabItem
	historyTab  *container.TabItem
	queueTab    *container.TabItem

	// Download tab
	urlEntry      *widget.Entry
	analyzeBtn    *widget.Button
	downloadBtn   *widget.Button
	videoCard     *fyne.Container
	thumbnail     *canvas.Image
	videoTitle    *widget.Label
	videoType     *widget.Label
	videoDuration *widget.Label
	videoDesc     *widget.Label
	qualitySelect *widget.Select
	typeSelect    *widget.Select

	// History tab
	clearHistoryBtn *widget.Button
	historyList     *widget.List
	historyEmpty    *widget.Label
	historyItems    []render.HistoryItem

	// Queue tab
	queueList  *widget.List
	queueEmpty *widget.Label
	queueItems []render.QueueItem

	// Progress modal
	progressRow   *TaskRow
	progressPopup *widget.PopUp
	progressTitle *widget.Label
	closeBtn      *widget.Button

	// Toast notifications
	toastMu       sync.Mutex
	toastPopup    *widget.PopUp
	toastSeq      uint64
	lastToast     toastRecord
	toastAutoHide time.Duration

	thumbMu  sync.Mutex
	thumbURL string
}

type toastRecord struct {
	level   render.Level
	message string
}

// NewRootUI creates the main UI over gw and loads history and queue once
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, gw gateway.Gateway) *RootUI {
	ui := newRootUI(window, app, settings, gw, session.Options{
		PollInterval: settings.GetPollInterval(),
		Preferences:  settings,
	})
	ui.run(ui.session.Start)
	return ui
}

func newRootUI(window fyne.Window, app fyne.App, settings *config.Settings, gw gateway.Gateway, opts session.Options) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		log.Printf("[ui] failed to ensure download directory: %v", err)
	}

	ui := &RootUI{
		window:       window,
		app:          app,
		gw:           gw,
		settings:     settings,
		localization: localization,
		run:          func(fn func()) { go fn() },

		toastAutoHide: ToastAutoHide,
	}
	if opts.Preferences == nil {
		opts.Preferences = settings
	}
	ui.session = session.New(gw, ui, ui, opts)

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

// Session returns the session driven by this window
func (ui *RootUI) Session() *session.App {
	return ui.session
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.tabs = container.NewAppTabs()
	ui.downloadTab = container.NewTabItem(ui.localization.GetText(KeyTabDownload), ui.createDownloadTab())
	ui.historyTab = container.NewTabItem(ui.localization.GetText(KeyTabHistory), ui.createHistoryTab())
	ui.queueTab = container.NewTabItem(ui.localization.GetText(KeyTabQueue), ui.createQueueTab())
	ui.tabs.Append(ui.downloadTab)
	ui.tabs.Append(ui.historyTab)
	ui.tabs.Append(ui.queueTab)
	ui.tabs.OnSelected = ui.onTabSelected

	ui.createProgressPopup()

	ui.window.SetContent(ui.tabs)
}

func (ui *RootUI) createDownloadTab() fyne.CanvasObject {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	// Enter in the URL field analyzes
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onAnalyzeClick()
	}

	ui.analyzeBtn = widget.NewButton(ui.localization.GetText(KeyAnalyze), ui.onAnalyzeClick)
	ui.analyzeBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.analyzeBtn, ui.urlEntry)

	ui.thumbnail = canvas.NewImageFromResource(nil)
	ui.thumbnail.FillMode = canvas.ImageFillContain
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))
	ui.thumbnail.Hide()

	ui.videoTitle = widget.NewLabel("")
	ui.videoTitle.TextStyle = fyne.TextStyle{Bold: true}
	ui.videoTitle.Wrapping = fyne.TextWrapWord
	ui.videoType = widget.NewLabel("")
	ui.videoDuration = widget.NewLabel("")
	ui.videoDesc = widget.NewLabel("")
	ui.videoDesc.Wrapping = fyne.TextWrapWord
	ui.videoDesc.Truncation = fyne.TextTruncateEllipsis

	ui.qualitySelect = widget.NewSelect(nil, nil)
	typeOptions := []string{}
	for _, t := range ui.settings.GetTypeOptions() {
		typeOptions = append(typeOptions, string(t))
	}
	ui.typeSelect = widget.NewSelect(typeOptions, nil)
	ui.typeSelect.SetSelected(string(ui.settings.GetDefaultType()))

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	options := widget.NewForm(
		widget.NewFormItem(ui.localization.GetText(KeyQuality), ui.qualitySelect),
		widget.NewFormItem(ui.localization.GetText(KeyType), ui.typeSelect),
	)
	info := container.NewVBox(ui.videoTitle, container.NewHBox(ui.videoType, ui.videoDuration), ui.videoDesc)
	ui.videoCard = container.NewVBox(
		container.NewBorder(nil, nil, ui.thumbnail, nil, info),
		options,
		ui.downloadBtn,
	)
	ui.videoCard.Hide()

	return container.NewBorder(topPanel, nil, nil, nil, container.NewVScroll(ui.videoCard))
}

func (ui *RootUI) createHistoryTab() fyne.CanvasObject {
	ui.clearHistoryBtn = widget.NewButton(ui.localization.GetText(KeyClearHistory), ui.onClearHistoryClick)
	ui.clearHistoryBtn.Importance = widget.DangerImportance

	ui.historyEmpty = widget.NewLabel(render.EmptyHistoryMessage)
	ui.historyEmpty.Alignment = fyne.TextAlignCenter

	ui.historyList = widget.NewList(
		func() int { return len(ui.historyItems) },
		func() fyne.CanvasObject {
			row := NewHistoryRow(ui.localization)
			row.SetOnSave(ui.onSaveFile)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(ui.historyItems) {
				return
			}
			obj.(*HistoryRow).SetItem(ui.historyItems[id])
		},
	)

	toolbar := container.NewHBox(ui.clearHistoryBtn)
	return container.NewBorder(toolbar, nil, nil, nil, container.NewStack(ui.historyList, container.NewCenter(ui.historyEmpty)))
}

func (ui *RootUI) createQueueTab() fyne.CanvasObject {
	ui.queueEmpty = widget.NewLabel(render.EmptyQueueMessage)
	ui.queueEmpty.Alignment = fyne.TextAlignCenter

	ui.queueList = widget.NewList(
		func() int { return len(ui.queueItems) },
		func() fyne.CanvasObject { return NewTaskRow(ui.localization, true) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(ui.queueItems) {
				return
			}
			item := ui.queueItems[id]
			row := obj.(*TaskRow)
			row.SetView(item.Progress)
			row.SetStarted(item.Started)
			row.SetOnCancel(func() {
				if item.Cancel != nil {
					ui.run(item.Cancel)
				}
			})
		},
	)

	refreshBtn := widget.NewButton(ui.localization.GetText(KeyRefresh), func() {
		ui.run(ui.session.RefreshQueue)
	})
	refreshBtn.Importance = widget.LowImportance

	return container.NewBorder(container.NewHBox(refreshBtn), nil, nil, nil, container.NewStack(ui.queueList, container.NewCenter(ui.queueEmpty)))
}

func (ui *RootUI) createProgressPopup() {
	ui.progressTitle = widget.NewLabel(ui.localization.GetText(KeyDownloadProgress))
	ui.progressTitle.TextStyle = fyne.TextStyle{Bold: true}

	ui.progressRow = NewTaskRow(ui.localization, false)

	ui.closeBtn = widget.NewButton(ui.localization.GetText(KeyClose), func() {
		ui.run(ui.session.CloseProgress)
	})

	content := container.NewVBox(
		container.NewBorder(nil, nil, nil, ui.closeBtn, ui.progressTitle),
		ui.progressRow,
	)
	ui.progressPopup = widget.NewModalPopUp(content, ui.window.Canvas())
	ui.progressPopup.Resize(fyne.NewSize(ProgressDialogWidth, ProgressDialogHeight))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	)
	ui.window.SetMainMenu(mainMenu)
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	text := ui.localization.GetText

	ui.window.SetTitle(text(KeyAppTitle))
	ui.downloadTab.Text = text(KeyTabDownload)
	ui.historyTab.Text = text(KeyTabHistory)
	ui.queueTab.Text = text(KeyTabQueue)
	ui.tabs.Refresh()

	ui.urlEntry.SetPlaceHolder(text(KeyEnterURL))
	if !ui.analyzeBtn.Disabled() {
		ui.analyzeBtn.SetText(text(KeyAnalyze))
	}
	if !ui.downloadBtn.Disabled() {
		ui.downloadBtn.SetText(text(KeyDownload))
	}
	ui.clearHistoryBtn.SetText(text(KeyClearHistory))
	ui.progressTitle.SetText(text(KeyDownloadProgress))
	ui.closeBtn.SetText(text(KeyClose))

	ui.historyList.Refresh()
	ui.queueList.Refresh()
}

func (ui *RootUI) onTabSelected(item *container.TabItem) {
	var tab session.Tab
	switch item {
	case ui.historyTab:
		tab = session.TabHistory
	case ui.queueTab:
		tab = session.TabQueue
	default:
		tab = session.TabDownload
	}
	ui.run(func() { ui.session.SwitchTab(tab) })
}

func (ui *RootUI) onAnalyzeClick() {
	input := ui.urlEntry.Text
	ui.run(func() {
		if _, err := ui.session.Analyze(input); err != nil && !errors.Is(err, session.ErrBusy) {
			log.Printf("[ui] analyze failed: %v", err)
		}
	})
}

func (ui *RootUI) onDownloadClick() {
	input := ui.urlEntry.Text
	quality := ui.qualitySelect.Selected
	kind := model.DownloadType(ui.typeSelect.Selected)
	ui.run(func() {
		if _, err := ui.session.StartDownload(input, quality, kind); err != nil && !errors.Is(err, session.ErrBusy) {
			log.Printf("[ui] download failed: %v", err)
		}
	})
}

func (ui *RootUI) onClearHistoryClick() {
	dialog.ShowConfirm(
		ui.localization.GetText(KeyClearHistory),
		ui.localization.GetText(KeyConfirmClear),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			ui.run(func() { _ = ui.session.ClearHistory() })
		},
		ui.window,
	)
}

func (ui *RootUI) onSaveFile(id string) {
	ui.run(func() { _, _ = ui.session.SaveFile(id) })
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.onSettingsSaved)
}

func (ui *RootUI) onSettingsSaved(serverChanged bool) {
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.refreshUITexts()
	ui.createMenu()
	ui.typeSelect.SetSelected(string(ui.settings.GetDefaultType()))

	if serverChanged {
		if setter, ok := ui.gw.(baseURLSetter); ok {
			if err := setter.SetBaseURL(ui.settings.GetServerURL()); err != nil {
				log.Printf("[ui] switching server: %v", err)
			}
		}
		ui.run(ui.session.Start)
	}

	ui.Notify(render.LevelSuccess, ui.localization.GetText(KeySettingsSaved))
}

// OpenProgress implements tracker.ProgressView
func (ui *RootUI) OpenProgress(id string) {
	fyne.Do(func() {
		view := render.RenderDownloadProgress(nil)
		view.ID = id
		ui.progressRow.SetView(view)
		ui.progressPopup.Resize(fyne.NewSize(ProgressDialogWidth, ProgressDialogHeight))
		ui.progressPopup.Show()
	})
}

// ShowProgress implements tracker.ProgressView
func (ui *RootUI) ShowProgress(view render.ProgressView) {
	fyne.Do(func() {
		ui.progressRow.SetView(view)
	})
}

// CloseProgress implements tracker.ProgressView
func (ui *RootUI) CloseProgress() {
	fyne.Do(func() {
		ui.progressPopup.Hide()
	})
}

// ShowVideo fills the video card and preselects quality and type
func (ui *RootUI) ShowVideo(view render.VideoView) {
	fyne.Do(func() {
		ui.videoTitle.SetText(view.Title)
		ui.videoType.SetText(view.TypeLabel)
		if view.Duration != "" {
			ui.videoDuration.SetText(ui.localization.GetText(KeyDuration) + ": " + view.Duration)
			ui.videoDuration.Show()
		} else {
			ui.videoDuration.Hide()
		}
		ui.videoDesc.SetText(view.Description)

		ui.qualitySelect.Options = view.Qualities
		ui.qualitySelect.ClearSelected()
		preferred := ui.settings.GetDefaultQuality()
		for _, q := range view.Qualities {
			if q == preferred {
				ui.qualitySelect.SetSelected(q)
				break
			}
		}
		if ui.qualitySelect.Selected == "" && len(view.Qualities) > 0 {
			ui.qualitySelect.SetSelected(view.Qualities[0])
		}
		ui.qualitySelect.Refresh()

		ui.thumbnail.Resource = nil
		ui.thumbnail.Hide()
		ui.videoCard.Show()
	})

	ui.loadThumbnail(view.Thumbnail)
}

// loadThumbnail fetches the image in the background; a newer video wins
func (ui *RootUI) loadThumbnail(thumbURL string) {
	ui.thumbMu.Lock()
	ui.thumbURL = thumbURL
	ui.thumbMu.Unlock()

	if thumbURL == "" {
		return
	}

	go func() {
		res, err := fyne.LoadResourceFromURLString(thumbURL)
		if err != nil {
			log.Printf("[ui] loading thumbnail %s: %v", thumbURL, err)
			return
		}

		ui.thumbMu.Lock()
		current := ui.thumbURL == thumbURL
		ui.thumbMu.Unlock()
		if !current {
			return
		}

		fyne.Do(func() {
			ui.thumbnail.Resource = res
			ui.thumbnail.Show()
			ui.thumbnail.Refresh()
		})
	}()
}

// ShowHistory implements session.View
func (ui *RootUI) ShowHistory(view render.HistoryView) {
	fyne.Do(func() {
		ui.historyItems = view.Items
		if view.EmptyMessage != "" {
			ui.historyEmpty.SetText(view.EmptyMessage)
			ui.historyEmpty.Show()
		} else {
			ui.historyEmpty.Hide()
		}
		ui.historyList.Refresh()
	})
}

// ShowQueue implements session.View
func (ui *RootUI) ShowQueue(view render.QueueView) {
	fyne.Do(func() {
		ui.queueItems = view.Items
		if view.EmptyMessage != "" {
			ui.queueEmpty.SetText(view.EmptyMessage)
			ui.queueEmpty.Show()
		} else {
			ui.queueEmpty.Hide()
		}
		ui.queueList.Refresh()
	})
}

// SetAnalyzing implements session.View
func (ui *RootUI) SetAnalyzing(loading bool) {
	fyne.Do(func() {
		setLoading(ui.analyzeBtn, loading, ui.localization.GetText(KeyLoading), ui.localization.GetText(KeyAnalyze))
	})
}

// SetStarting implements session.View
func (ui *RootUI) SetStarting(loading bool) {
	fyne.Do(func() {
		setLoading(ui.downloadBtn, loading, ui.localization.GetText(KeyLoading), ui.localization.GetText(KeyDownload))
	})
}

func setLoading(btn *widget.Button, loading bool, loadingText, idleText string) {
	if loading {
		btn.SetText(loadingText)
		btn.Disable()
		return
	}
	btn.SetText(idleText)
	btn.Enable()
}

// OpenURL opens rawURL in the default browser
func (ui *RootUI) OpenURL(rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("[ui] bad file URL %q: %v", rawURL, err)
		return
	}
	if err := ui.app.OpenURL(u); err != nil {
		log.Printf("[ui] opening %s: %v", rawURL, err)
		ui.Notify(render.LevelError, "Could not open "+rawURL)
	}
}

// RevealFile shows path in the system file manager
func (ui *RootUI) RevealFile(path string) {
	if err := platform.OpenFileInManager(path); err != nil {
		log.Printf("[ui] revealing %s: %v", path, err)
	}
}

// Notify shows a toast in the top-right corner that hides itself after
// ToastAutoHide. A newer toast replaces the visible one.
func (ui *RootUI) Notify(level render.Level, message string) {
	ui.toastMu.Lock()
	ui.toastSeq++
	seq := ui.toastSeq
	ui.lastToast = toastRecord{level: level, message: message}
	ui.toastMu.Unlock()

	fyne.Do(func() {
		ui.showToast(level, message)
	})

	go func() {
		time.Sleep(ui.toastAutoHide)
		ui.hideToast(seq)
	}()
}

func (ui *RootUI) showToast(level render.Level, message string) {
	label := widget.NewLabel(LevelIcon(level) + " " + message)
	label.Importance = LevelImportance(level)
	label.Wrapping = fyne.TextWrapWord

	var popup *widget.PopUp
	closeBtn := widget.NewButton(IconClose, func() {
		if popup != nil {
			popup.Hide()
		}
	})
	closeBtn.Importance = widget.LowImportance

	content := container.NewBorder(nil, nil, nil, container.NewVBox(closeBtn), label)
	popup = widget.NewPopUp(content, ui.window.Canvas())

	canvasSize := ui.window.Canvas().Size()
	toastSize := fyne.NewSize(ToastWidth, ToastHeight)
	popup.Resize(toastSize)
	popup.ShowAtPosition(fyne.NewPos(canvasSize.Width-toastSize.Width-ToastMargin, ToastMargin))

	ui.toastMu.Lock()
	previous := ui.toastPopup
	ui.toastPopup = popup
	ui.toastMu.Unlock()
	if previous != nil {
		previous.Hide()
	}
}

// hideToast hides the visible toast if it is still the one numbered seq
func (ui *RootUI) hideToast(seq uint64) {
	ui.toastMu.Lock()
	if seq != ui.toastSeq {
		ui.toastMu.Unlock()
		return
	}
	popup := ui.toastPopup
	ui.toastMu.Unlock()

	if popup != nil {
		fyne.Do(popup.Hide)
	}
}

// LastNotification returns the level and text of the most recent toast
func (ui *RootUI) LastNotification() (render.Level, string) {
	ui.toastMu.Lock()
	defer ui.toastMu.Unlock()
	return ui.lastToast.level, ui.lastToast.message
}
