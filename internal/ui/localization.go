package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyTabDownload       = "tab_download"
	KeyTabHistory        = "tab_history"
	KeyTabQueue          = "tab_queue"
	KeyAnalyze           = "analyze"
	KeyDownload          = "download"
	KeyLoading           = "loading"
	KeyEnterURL          = "enter_url"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyQuality           = "quality"
	KeyType              = "type"
	KeyDuration          = "duration"
	KeyDownloadProgress  = "download_progress"
	KeyClose             = "close"
	KeyCancel            = "cancel"
	KeyOpen              = "open"
	KeySave              = "save"
	KeyRefresh           = "refresh"
	KeyClearHistory      = "clear_history"
	KeyConfirmClear      = "confirm_clear"
	KeyServerURL         = "server_url"
	KeyPollInterval      = "poll_interval"
	KeyRequestTimeout    = "request_timeout"
	KeyRequestsPerSecond = "requests_per_second"
	KeyDefaultQuality    = "default_quality"
	KeyDefaultType       = "default_type"
	KeyDownloadDirectory = "download_directory"
	KeyBrowse            = "browse"
	KeyAutoReveal        = "auto_reveal"
	KeySettingsSaved     = "settings_saved"
	KeyInvalidServerURL  = "invalid_server_url"
	KeyAppliedOnRestart  = "applied_on_restart"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Remote",
		KeyTabDownload:       "Download",
		KeyTabHistory:        "History",
		KeyTabQueue:          "Queue",
		KeyAnalyze:           "Analyze",
		KeyDownload:          "Download",
		KeyLoading:           "Loading...",
		KeyEnterURL:          "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyQuality:           "Quality",
		KeyType:              "Type",
		KeyDuration:          "Duration",
		KeyDownloadProgress:  "Download Progress",
		KeyClose:             "Close",
		KeyCancel:            "Cancel",
		KeyOpen:              "Open",
		KeySave:              "Save",
		KeyRefresh:           "Refresh",
		KeyClearHistory:      "Clear History",
		KeyConfirmClear:      "Are you sure you want to clear all download history?",
		KeyServerURL:         "Server URL",
		KeyPollInterval:      "Poll Interval (ms)",
		KeyRequestTimeout:    "Request Timeout (s)",
		KeyRequestsPerSecond: "Requests per Second",
		KeyDefaultQuality:    "Default Quality",
		KeyDefaultType:       "Default Type",
		KeyDownloadDirectory: "Download Directory",
		KeyBrowse:            "Browse",
		KeyAutoReveal:        "Show saved files in file manager",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyInvalidServerURL:  "Server URL must start with http:// or https://",
		KeyAppliedOnRestart:  "Interval, timeout and rate changes apply after restart",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Remote",
		KeyTabDownload:       "Загрузка",
		KeyTabHistory:        "История",
		KeyTabQueue:          "Очередь",
		KeyAnalyze:           "Анализ",
		KeyDownload:          "Скачать",
		KeyLoading:           "Загрузка...",
		KeyEnterURL:          "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyQuality:           "Качество",
		KeyType:              "Тип",
		KeyDuration:          "Длительность",
		KeyDownloadProgress:  "Ход загрузки",
		KeyClose:             "Закрыть",
		KeyCancel:            "Отмена",
		KeyOpen:              "Открыть",
		KeySave:              "Сохранить",
		KeyRefresh:           "Обновить",
		KeyClearHistory:      "Очистить историю",
		KeyConfirmClear:      "Вы уверены, что хотите очистить всю историю загрузок?",
		KeyServerURL:         "Адрес сервера",
		KeyPollInterval:      "Интервал опроса (мс)",
		KeyRequestTimeout:    "Таймаут запроса (с)",
		KeyRequestsPerSecond: "Запросов в секунду",
		KeyDefaultQuality:    "Качество по умолчанию",
		KeyDefaultType:       "Тип по умолчанию",
		KeyDownloadDirectory: "Папка загрузки",
		KeyBrowse:            "Обзор",
		KeyAutoReveal:        "Показывать сохранённые файлы в файловом менеджере",
		KeySettingsSaved:     "Настройки сохранены!",
		KeyInvalidServerURL:  "Адрес сервера должен начинаться с http:// или https://",
		KeyAppliedOnRestart:  "Интервал, таймаут и лимит применятся после перезапуска",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Remote",
		KeyTabDownload:       "Baixar",
		KeyTabHistory:        "Histórico",
		KeyTabQueue:          "Fila",
		KeyAnalyze:           "Analisar",
		KeyDownload:          "Baixar",
		KeyLoading:           "Carregando...",
		KeyEnterURL:          "Digite a URL do YouTube (https://youtube.com/watch?v=...)",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyQuality:           "Qualidade",
		KeyType:              "Tipo",
		KeyDuration:          "Duração",
		KeyDownloadProgress:  "Progresso do download",
		KeyClose:             "Fechar",
		KeyCancel:            "Cancelar",
		KeyOpen:              "Abrir",
		KeySave:              "Salvar",
		KeyRefresh:           "Atualizar",
		KeyClearHistory:      "Limpar histórico",
		KeyConfirmClear:      "Tem certeza de que deseja limpar todo o histórico de downloads?",
		KeyServerURL:         "URL do servidor",
		KeyPollInterval:      "Intervalo de consulta (ms)",
		KeyRequestTimeout:    "Tempo limite (s)",
		KeyRequestsPerSecond: "Requisições por segundo",
		KeyDefaultQuality:    "Qualidade padrão",
		KeyDefaultType:       "Tipo padrão",
		KeyDownloadDirectory: "Pasta de download",
		KeyBrowse:            "Procurar",
		KeyAutoReveal:        "Mostrar arquivos salvos no gerenciador",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyInvalidServerURL:  "A URL do servidor deve começar com http:// ou https://",
		KeyAppliedOnRestart:  "Intervalo, tempo limite e taxa valem após reiniciar",
	}
}
