package ui

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-remote/internal/config"
	"github.com/ytget/yt-remote/internal/model"
)

// qualityPresets are offered as the default quality
var qualityPresets = []string{model.QualityHighest, "1080p", "720p", "480p", "360p", model.QualityLowest}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(serverChanged bool)

	serverChanged bool

	// UI components
	serverEntry      *widget.Entry
	pollEntry        *widget.Entry
	timeoutEntry     *widget.Entry
	rateEntry        *widget.Entry
	qualitySelect    *widget.Select
	typeSelect       *widget.Select
	downloadDirEntry *widget.Entry
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check

	// display name -> language code
	languageCodes map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values are stored.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func(serverChanged bool)) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// ShowSettingsDialog creates the dialog and shows it
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func(serverChanged bool)) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window, onSaved)
	sd.Show()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.serverEntry = widget.NewEntry()
	sd.serverEntry.SetPlaceHolder(config.DefaultServerURL)
	sd.serverEntry.Validator = validateServerURL

	sd.pollEntry = widget.NewEntry()
	sd.pollEntry.SetPlaceHolder("250-10000")

	sd.timeoutEntry = widget.NewEntry()
	sd.timeoutEntry.SetPlaceHolder("1-300")

	sd.rateEntry = widget.NewEntry()
	sd.rateEntry.SetPlaceHolder("1-100")

	sd.qualitySelect = widget.NewSelect(qualityPresets, nil)

	typeOptions := []string{}
	for _, t := range sd.settings.GetTypeOptions() {
		typeOptions = append(typeOptions, string(t))
	}
	sd.typeSelect = widget.NewSelect(typeOptions, nil)

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.languageCodes = make(map[string]string)
	languageNames := []string{}
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	sd.autoRevealCheck = widget.NewCheck(text(KeyAutoReveal), nil)

	note := widget.NewLabel(text(KeyAppliedOnRestart))
	note.TextStyle = fyne.TextStyle{Italic: true}
	note.Wrapping = fyne.TextWrapWord

	form := widget.NewForm(
		widget.NewFormItem(text(KeyServerURL), sd.serverEntry),
		widget.NewFormItem(text(KeyPollInterval), sd.pollEntry),
		widget.NewFormItem(text(KeyRequestTimeout), sd.timeoutEntry),
		widget.NewFormItem(text(KeyRequestsPerSecond), sd.rateEntry),
		widget.NewFormItem(text(KeyDefaultQuality), sd.qualitySelect),
		widget.NewFormItem(text(KeyDefaultType), sd.typeSelect),
		widget.NewFormItem(text(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(text(KeyLanguage), sd.languageSelect),
	)

	content := container.NewVBox(form, sd.autoRevealCheck, widget.NewSeparator(), note)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		content,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.serverEntry.SetText(sd.settings.GetServerURL())
	sd.pollEntry.SetText(strconv.Itoa(int(sd.settings.GetPollInterval() / time.Millisecond)))
	sd.timeoutEntry.SetText(strconv.Itoa(int(sd.settings.GetRequestTimeout() / time.Second)))
	sd.rateEntry.SetText(strconv.Itoa(sd.settings.GetRequestsPerSecond()))
	sd.qualitySelect.SetSelected(sd.settings.GetDefaultQuality())
	sd.typeSelect.SetSelected(string(sd.settings.GetDefaultType()))
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if err := validateServerURL(sd.serverEntry.Text); err != nil {
		dialog.ShowError(errors.New(sd.localization.GetText(KeyInvalidServerURL)), sd.window)
		return
	}

	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved(sd.serverChanged)
	}
}

// apply stores the form values and records whether the server URL changed
func (sd *SettingsDialog) apply() {
	before := sd.settings.GetServerURL()
	sd.settings.SetServerURL(sd.serverEntry.Text)
	sd.serverChanged = sd.settings.GetServerURL() != before

	if ms, err := strconv.Atoi(strings.TrimSpace(sd.pollEntry.Text)); err == nil {
		sd.settings.SetPollInterval(time.Duration(ms) * time.Millisecond)
	}
	if sec, err := strconv.Atoi(strings.TrimSpace(sd.timeoutEntry.Text)); err == nil {
		sd.settings.SetRequestTimeout(time.Duration(sec) * time.Second)
	}
	if rps, err := strconv.Atoi(strings.TrimSpace(sd.rateEntry.Text)); err == nil {
		sd.settings.SetRequestsPerSecond(rps)
	}

	if sd.qualitySelect.Selected != "" {
		sd.settings.SetDefaultQuality(sd.qualitySelect.Selected)
	}
	if sd.typeSelect.Selected != "" {
		sd.settings.SetDefaultType(model.DownloadType(sd.typeSelect.Selected))
	}

	if dir := strings.TrimSpace(sd.downloadDirEntry.Text); dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
}

// validateServerURL accepts absolute http(s) URLs with a host
func validateServerURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("server URL must be http(s) with a host")
	}
	return nil
}
