package ui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyURL               = "url"
	KeyEnterURL          = "enter_url"
	KeyContentType       = "content_type"
	KeySingle            = "single"
	KeyCollection        = "collection"
	KeyMediaType         = "media_type"
	KeyVideo             = "video"
	KeyAudio             = "audio"
	KeyQuality           = "quality"
	KeyAudioFormat       = "audio_format"
	KeyPreview           = "preview"
	KeyDownload          = "download"
	KeyDownloading       = "downloading"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadFailed    = "download_failed"
	KeyDownloadedTitle   = "downloaded_title"
	KeyNotFound          = "not_found"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyInvalidOption     = "invalid_option"
	KeyTitle             = "title"
	KeyDuration          = "duration"
	KeyUploader          = "uploader"
	KeyViews             = "views"
	KeyItems             = "items"
	KeyFirstItems        = "first_items"
	KeySavedOf           = "saved_of"
	KeySkippedItems      = "skipped_items"
	KeyGetFile           = "get_file"
	KeyGetArchive        = "get_archive"
	KeyArchiveFailed     = "archive_failed"
	KeyFileMissing       = "file_missing"
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

	// Final fallback - return key itself
	return key
}

// Sprintf formats a localized template with locale-aware number formatting
func (l *Localization) Sprintf(key string, args ...any) string {
	return l.printer().Sprintf(l.GetText(key), args...)
}

// FormatCount renders n with the current language's digit grouping
func (l *Localization) FormatCount(n int64) string {
	return l.printer().Sprintf("%d", n)
}

func (l *Localization) printer() *message.Printer {
	tag, err := language.Parse(l.currentLanguage)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
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

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Web Downloader",
		KeyURL:               "URL",
		KeyEnterURL:          "https://www.youtube.com/watch?v=...",
		KeyContentType:       "Content",
		KeySingle:            "Single video",
		KeyCollection:        "Playlist",
		KeyMediaType:         "Download as",
		KeyVideo:             "Video",
		KeyAudio:             "Audio only",
		KeyQuality:           "Quality",
		KeyAudioFormat:       "Audio format",
		KeyPreview:           "Preview",
		KeyDownload:          "Download",
		KeyDownloading:       "Downloading...",
		KeyDownloadCompleted: "Download completed",
		KeyDownloadedTitle:   "Successfully downloaded: %s",
		KeyDownloadFailed:    "Download failed",
		KeyNotFound:          "Could not fetch information. Check the URL and try again.",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyInvalidOption:     "Invalid option",
		KeyTitle:             "Title",
		KeyDuration:          "Duration",
		KeyUploader:          "Uploader",
		KeyViews:             "Views",
		KeyItems:             "Items",
		KeyFirstItems:        "First %d items",
		KeySavedOf:           "Saved %d of %d items",
		KeySkippedItems:      "Some items were skipped",
		KeyGetFile:           "Save file",
		KeyGetArchive:        "Save zip archive",
		KeyArchiveFailed:     "Could not create the zip archive",
		KeyFileMissing:       "The file was downloaded but its location is unknown",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Веб-загрузчик",
		KeyURL:               "URL",
		KeyEnterURL:          "https://www.youtube.com/watch?v=...",
		KeyContentType:       "Содержимое",
		KeySingle:            "Одно видео",
		KeyCollection:        "Плейлист",
		KeyMediaType:         "Скачать как",
		KeyVideo:             "Видео",
		KeyAudio:             "Только аудио",
		KeyQuality:           "Качество",
		KeyAudioFormat:       "Формат аудио",
		KeyPreview:           "Предпросмотр",
		KeyDownload:          "Скачать",
		KeyDownloading:       "Загрузка...",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyDownloadedTitle:   "Успешно загружено: %s",
		KeyDownloadFailed:    "Ошибка загрузки",
		KeyNotFound:          "Не удалось получить информацию. Проверьте URL и попробуйте снова.",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyInvalidOption:     "Неверный параметр",
		KeyTitle:             "Название",
		KeyDuration:          "Длительность",
		KeyUploader:          "Автор",
		KeyViews:             "Просмотры",
		KeyItems:             "Элементов",
		KeyFirstItems:        "Первые %d элементов",
		KeySavedOf:           "Сохранено %d из %d",
		KeySkippedItems:      "Некоторые элементы пропущены",
		KeyGetFile:           "Сохранить файл",
		KeyGetArchive:        "Сохранить zip-архив",
		KeyArchiveFailed:     "Не удалось создать zip-архив",
		KeyFileMissing:       "Файл загружен, но его расположение неизвестно",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Web Downloader",
		KeyURL:               "URL",
		KeyEnterURL:          "https://www.youtube.com/watch?v=...",
		KeyContentType:       "Conteúdo",
		KeySingle:            "Vídeo único",
		KeyCollection:        "Playlist",
		KeyMediaType:         "Baixar como",
		KeyVideo:             "Vídeo",
		KeyAudio:             "Somente áudio",
		KeyQuality:           "Qualidade",
		KeyAudioFormat:       "Formato de áudio",
		KeyPreview:           "Visualizar",
		KeyDownload:          "Baixar",
		KeyDownloading:       "Baixando...",
		KeyDownloadCompleted: "Download concluído",
		KeyDownloadedTitle:   "Baixado com sucesso: %s",
		KeyDownloadFailed:    "Falha no download",
		KeyNotFound:          "Não foi possível obter informações. Verifique a URL e tente novamente.",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyInvalidOption:     "Opção inválida",
		KeyTitle:             "Título",
		KeyDuration:          "Duração",
		KeyUploader:          "Autor",
		KeyViews:             "Visualizações",
		KeyItems:             "Itens",
		KeyFirstItems:        "Primeiros %d itens",
		KeySavedOf:           "Salvos %d de %d itens",
		KeySkippedItems:      "Alguns itens foram ignorados",
		KeyGetFile:           "Salvar arquivo",
		KeyGetArchive:        "Salvar arquivo zip",
		KeyArchiveFailed:     "Não foi possível criar o arquivo zip",
		KeyFileMissing:       "O arquivo foi baixado, mas sua localização é desconhecida",
	}
}
