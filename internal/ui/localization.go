package ui

import (
	"fmt"
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyOpenFile           = "open_file"
	KeyLoad               = "load"
	KeyEnterSource        = "enter_source"
	KeyRecent             = "recent"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyPlay               = "play"
	KeyPause              = "pause"
	KeyStop               = "stop"
	KeyPrevious           = "previous"
	KeyNext               = "next"
	KeyTimestampHint      = "timestamp_hint"
	KeyGoToTimestamp      = "go_to_timestamp"
	KeySpeed              = "speed"
	KeyVolume             = "volume"
	KeyOCRFrame           = "ocr_frame"
	KeyTranscript         = "transcript"
	KeyCopyTranscript     = "copy_transcript"
	KeyTranscriptCopied   = "transcript_copied"
	KeyAPIURL             = "api_url"
	KeySkipShort          = "skip_short"
	KeySkipLong           = "skip_long"
	KeySeconds            = "seconds"
	KeyClearHistory       = "clear_history"
	KeyClearHistoryAsk    = "clear_history_ask"
	KeyHistoryCleared     = "history_cleared"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeySettingsSaved      = "settings_saved"
	KeyPleaseEnterSource  = "please_enter_source"
	KeyLoading            = "loading"
	KeyLoadFailed         = "load_failed"
	KeyNoMedia            = "no_media"
	KeyCapturing          = "capturing"
	KeyCaptureBusy        = "capture_busy"
	KeyOCRUnavailable     = "ocr_unavailable"
	KeyOCRRejected        = "ocr_rejected"
	KeyCaptureFailed      = "capture_failed"
	KeyInvalidTimestamp   = "invalid_timestamp"
	KeyQueueEnd           = "queue_end"
	KeyPlaylist           = "playlist"
	KeyInvalidSkipSeconds = "invalid_skip_seconds"
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

// SetLanguage sets the current language. "system" picks the language of
// the LANG environment variable when it is available.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
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

	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Textf formats the localized text for key with args
func (l *Localization) Textf(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
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

// systemLanguage reads a two-letter code such as "ru" from LANG ("ru_RU.UTF-8")
func systemLanguage() string {
	lang := os.Getenv("LANG")
	if len(lang) < 2 {
		return "en"
	}
	return strings.ToLower(lang[:2])
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Cyclops Player",
		KeyOpenFile:           "Open File",
		KeyLoad:               "Load",
		KeyEnterSource:        "Video file path or URL",
		KeyRecent:             "Recent files",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyPlay:               "Play",
		KeyPause:              "Pause",
		KeyStop:               "Stop",
		KeyPrevious:           "Previous",
		KeyNext:               "Next",
		KeyTimestampHint:      "mm:ss",
		KeyGoToTimestamp:      "Go to timestamp",
		KeySpeed:              "Speed",
		KeyVolume:             "Volume",
		KeyOCRFrame:           "OCR Frame",
		KeyTranscript:         "Transcript",
		KeyCopyTranscript:     "Copy transcript",
		KeyTranscriptCopied:   "Transcript copied to clipboard",
		KeyAPIURL:             "OCR API URL",
		KeySkipShort:          "Short skip",
		KeySkipLong:           "Long skip",
		KeySeconds:            "seconds",
		KeyClearHistory:       "Clear recent history",
		KeyClearHistoryAsk:    "Remove all recent files from the list?",
		KeyHistoryCleared:     "Recent history cleared",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeySettingsSaved:      "Settings saved",
		KeyPleaseEnterSource:  "Please enter a file path or URL",
		KeyLoading:            "Loading %s...",
		KeyLoadFailed:         "Failed to load media: %v",
		KeyNoMedia:            "No video playing",
		KeyCapturing:          "Capturing frame...",
		KeyCaptureBusy:        "A capture is already running",
		KeyOCRUnavailable:     "Could not connect to the OCR API. Check that it is running.",
		KeyOCRRejected:        "OCR API error: %v",
		KeyCaptureFailed:      "Failed to capture frame: %v",
		KeyInvalidTimestamp:   "Invalid timestamp, use minutes:seconds",
		KeyQueueEnd:           "No more items in the playlist",
		KeyPlaylist:           "Playlist: %s (%d/%d)",
		KeyInvalidSkipSeconds: "Skip offsets must be whole seconds",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Плеер Cyclops",
		KeyOpenFile:           "Открыть файл",
		KeyLoad:               "Загрузить",
		KeyEnterSource:        "Путь к видео или URL",
		KeyRecent:             "Недавние файлы",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyPlay:               "Воспроизвести",
		KeyPause:              "Пауза",
		KeyStop:               "Стоп",
		KeyPrevious:           "Предыдущее",
		KeyNext:               "Следующее",
		KeyTimestampHint:      "мм:сс",
		KeyGoToTimestamp:      "Перейти к времени",
		KeySpeed:              "Скорость",
		KeyVolume:             "Громкость",
		KeyOCRFrame:           "Распознать кадр",
		KeyTranscript:         "Расшифровка",
		KeyCopyTranscript:     "Копировать расшифровку",
		KeyTranscriptCopied:   "Расшифровка скопирована",
		KeyAPIURL:             "URL API распознавания",
		KeySkipShort:          "Короткий переход",
		KeySkipLong:           "Длинный переход",
		KeySeconds:            "секунд",
		KeyClearHistory:       "Очистить историю",
		KeyClearHistoryAsk:    "Удалить все недавние файлы из списка?",
		KeyHistoryCleared:     "История очищена",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeySettingsSaved:      "Настройки сохранены",
		KeyPleaseEnterSource:  "Введите путь к файлу или URL",
		KeyLoading:            "Загрузка %s...",
		KeyLoadFailed:         "Не удалось загрузить: %v",
		KeyNoMedia:            "Видео не воспроизводится",
		KeyCapturing:          "Захват кадра...",
		KeyCaptureBusy:        "Захват уже выполняется",
		KeyOCRUnavailable:     "Нет связи с API распознавания. Проверьте, что он запущен.",
		KeyOCRRejected:        "Ошибка API распознавания: %v",
		KeyCaptureFailed:      "Не удалось захватить кадр: %v",
		KeyInvalidTimestamp:   "Неверное время, используйте минуты:секунды",
		KeyQueueEnd:           "В плейлисте больше нет видео",
		KeyPlaylist:           "Плейлист: %s (%d/%d)",
		KeyInvalidSkipSeconds: "Переход задаётся целым числом секунд",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Cyclops Player",
		KeyOpenFile:           "Abrir arquivo",
		KeyLoad:               "Carregar",
		KeyEnterSource:        "Caminho do vídeo ou URL",
		KeyRecent:             "Arquivos recentes",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyPlay:               "Reproduzir",
		KeyPause:              "Pausar",
		KeyStop:               "Parar",
		KeyPrevious:           "Anterior",
		KeyNext:               "Próximo",
		KeyTimestampHint:      "mm:ss",
		KeyGoToTimestamp:      "Ir para o tempo",
		KeySpeed:              "Velocidade",
		KeyVolume:             "Volume",
		KeyOCRFrame:           "OCR do quadro",
		KeyTranscript:         "Transcrição",
		KeyCopyTranscript:     "Copiar transcrição",
		KeyTranscriptCopied:   "Transcrição copiada",
		KeyAPIURL:             "URL da API de OCR",
		KeySkipShort:          "Salto curto",
		KeySkipLong:           "Salto longo",
		KeySeconds:            "segundos",
		KeyClearHistory:       "Limpar histórico",
		KeyClearHistoryAsk:    "Remover todos os arquivos recentes da lista?",
		KeyHistoryCleared:     "Histórico limpo",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeySettingsSaved:      "Configurações salvas",
		KeyPleaseEnterSource:  "Digite um caminho ou URL",
		KeyLoading:            "Carregando %s...",
		KeyLoadFailed:         "Falha ao carregar mídia: %v",
		KeyNoMedia:            "Nenhum vídeo em reprodução",
		KeyCapturing:          "Capturando quadro...",
		KeyCaptureBusy:        "Uma captura já está em andamento",
		KeyOCRUnavailable:     "Não foi possível conectar à API de OCR. Verifique se está em execução.",
		KeyOCRRejected:        "Erro da API de OCR: %v",
		KeyCaptureFailed:      "Falha ao capturar quadro: %v",
		KeyInvalidTimestamp:   "Tempo inválido, use minutos:segundos",
		KeyQueueEnd:           "Não há mais itens na playlist",
		KeyPlaylist:           "Playlist: %s (%d/%d)",
		KeyInvalidSkipSeconds: "Os saltos devem ser segundos inteiros",
	}
}
