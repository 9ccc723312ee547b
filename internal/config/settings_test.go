package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestSkipShort(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetSkipShort(); got != DefaultSkipShort {
		t.Errorf("Expected default short skip %d, got %d", DefaultSkipShort, got)
	}

	settings.SetSkipShort(10)
	if got := settings.GetSkipShort(); got != 10 {
		t.Errorf("Expected short skip 10, got %d", got)
	}

	settings.SetSkipShort(0)
	if settings.GetSkipShort() != MinSkipShort {
		t.Error("Short skip should be clamped to minimum 1")
	}

	settings.SetSkipShort(61)
	if settings.GetSkipShort() != MaxSkipShort {
		t.Error("Short skip should be clamped to maximum 60")
	}
}

func TestSkipLong(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetSkipLong(); got != DefaultSkipLong {
		t.Errorf("Expected default long skip %d, got %d", DefaultSkipLong, got)
	}

	settings.SetSkipLong(120)
	if got := settings.GetSkipLong(); got != 120 {
		t.Errorf("Expected long skip 120, got %d", got)
	}

	settings.SetSkipLong(-5)
	if settings.GetSkipLong() != MinSkipLong {
		t.Error("Long skip should be clamped to minimum 1")
	}

	settings.SetSkipLong(301)
	if settings.GetSkipLong() != MaxSkipLong {
		t.Error("Long skip should be clamped to maximum 300")
	}
}

func TestGetSkipConfig(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	settings.SetSkipShort(3)
	settings.SetSkipLong(45)

	cfg := settings.GetSkipConfig()
	if cfg.ShortSeconds != 3 || cfg.LongSeconds != 45 {
		t.Errorf("Unexpected skip config %+v", cfg)
	}
}

func TestAPIURL(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetAPIURL(); got != DefaultAPIURL {
		t.Errorf("Expected default API URL %s, got %s", DefaultAPIURL, got)
	}

	custom := "https://ocr.example.com/frame/ocr"
	settings.SetAPIURL(custom)
	if got := settings.GetAPIURL(); got != custom {
		t.Errorf("Expected API URL %s, got %s", custom, got)
	}

	settings.SetAPIURL("")
	if got := settings.GetAPIURL(); got != DefaultAPIURL {
		t.Errorf("Empty API URL should default to %s, got %s", DefaultAPIURL, got)
	}
}

func TestVolume(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if got := settings.GetVolume(); got != DefaultVolume {
		t.Errorf("Expected default volume %d, got %d", DefaultVolume, got)
	}

	settings.SetVolume(40)
	if got := settings.GetVolume(); got != 40 {
		t.Errorf("Expected volume 40, got %d", got)
	}

	settings.SetVolume(150)
	if got := settings.GetVolume(); got != 100 {
		t.Errorf("Volume should be clamped to 100, got %d", got)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("en")

	retrievedLang := settings.GetLanguage()
	if retrievedLang != "en" {
		t.Errorf("Expected language 'en', got %s", retrievedLang)
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}

func TestSettingsRecentBackend(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	items, err := settings.ReadRecent()
	if err != nil {
		t.Fatalf("ReadRecent() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no recent items, got %v", items)
	}

	if err := settings.WriteRecent([]string{"/a.mp4", "/b.mkv"}); err != nil {
		t.Fatalf("WriteRecent() error = %v", err)
	}

	items, _ = settings.ReadRecent()
	if len(items) != 2 || items[0] != "/a.mp4" || items[1] != "/b.mkv" {
		t.Errorf("Unexpected recent items %v", items)
	}
}

func TestValidateAPIURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:8000/frame/ocr", false},
		{"https://ocr.example.com/frame/ocr", false},
		{"", true},
		{"not a url", true},
		{"ftp://example.com/ocr", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateAPIURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
