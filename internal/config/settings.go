package config

import (
	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyRecentItems = "recent_items"
	KeySkipShort   = "skip_short"
	KeySkipLong    = "skip_long"
	KeyAPIURL      = "api_url"
	KeyVolume      = "volume"
	KeyLanguage    = "app_language"
)

// Default values
const (
	DefaultSkipShort = 5
	DefaultSkipLong  = 30
	DefaultAPIURL    = "http://localhost:8000/frame/ocr"
	DefaultVolume    = 100
	DefaultLanguage  = "system"
)

// Skip interval bounds in seconds
const (
	MinSkipShort = 1
	MaxSkipShort = 60
	MinSkipLong  = 1
	MaxSkipLong  = 300
)

// SkipConfig holds the short and long skip offsets in seconds
type SkipConfig struct {
	ShortSeconds int
	LongSeconds  int
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetSkipShort returns the short skip interval in seconds
func (s *Settings) GetSkipShort() int {
	value := s.app.Preferences().Int(KeySkipShort)
	if value <= 0 {
		s.SetSkipShort(DefaultSkipShort)
		return DefaultSkipShort
	}
	return clamp(value, MinSkipShort, MaxSkipShort)
}

// SetSkipShort sets the short skip interval, clamped to [1, 60]
func (s *Settings) SetSkipShort(seconds int) {
	s.app.Preferences().SetInt(KeySkipShort, clamp(seconds, MinSkipShort, MaxSkipShort))
}

// GetSkipLong returns the long skip interval in seconds
func (s *Settings) GetSkipLong() int {
	value := s.app.Preferences().Int(KeySkipLong)
	if value <= 0 {
		s.SetSkipLong(DefaultSkipLong)
		return DefaultSkipLong
	}
	return clamp(value, MinSkipLong, MaxSkipLong)
}

// SetSkipLong sets the long skip interval, clamped to [1, 300]
func (s *Settings) SetSkipLong(seconds int) {
	s.app.Preferences().SetInt(KeySkipLong, clamp(seconds, MinSkipLong, MaxSkipLong))
}

// GetSkipConfig returns both skip intervals
func (s *Settings) GetSkipConfig() SkipConfig {
	return SkipConfig{
		ShortSeconds: s.GetSkipShort(),
		LongSeconds:  s.GetSkipLong(),
	}
}

// GetAPIURL returns the OCR endpoint URL
func (s *Settings) GetAPIURL() string {
	url := s.app.Preferences().String(KeyAPIURL)
	if url == "" {
		s.SetAPIURL(DefaultAPIURL)
		return DefaultAPIURL
	}
	return url
}

// SetAPIURL sets the OCR endpoint URL; empty resets to the default
func (s *Settings) SetAPIURL(url string) {
	if url == "" {
		url = DefaultAPIURL
	}
	s.app.Preferences().SetString(KeyAPIURL, url)
}

// GetVolume returns the last used volume in [0, 100]
func (s *Settings) GetVolume() int {
	return clamp(s.app.Preferences().IntWithFallback(KeyVolume, DefaultVolume), 0, 100)
}

// SetVolume stores the volume, clamped to [0, 100]
func (s *Settings) SetVolume(volume int) {
	s.app.Preferences().SetInt(KeyVolume, clamp(volume, 0, 100))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// ReadRecent implements Backend on top of the app preferences
func (s *Settings) ReadRecent() ([]string, error) {
	return s.app.Preferences().StringList(KeyRecentItems), nil
}

// WriteRecent implements Backend on top of the app preferences
func (s *Settings) WriteRecent(items []string) error {
	s.app.Preferences().SetStringList(KeyRecentItems, items)
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
