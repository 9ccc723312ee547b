package server

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the frame/OCR service
type Config struct {
	Addr        string            `yaml:"addr" validate:"required,hostname_port"`
	Videos      map[string]string `yaml:"videos" validate:"dive,keys,required,endkeys,required"`
	VideoDir    string            `yaml:"video_dir"`
	Tesseract   TesseractConfig   `yaml:"tesseract"`
	FFmpeg      string            `yaml:"ffmpeg"`
	FFprobe     string            `yaml:"ffprobe"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	CORSOrigins []string          `yaml:"cors_origins"`
	// TrustProxy honours forwarding headers; enable only behind a proxy
	TrustProxy bool   `yaml:"trust_proxy"`
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// RequestTimeout bounds frame extraction and OCR per request
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
}

// TesseractConfig selects the tesseract binary and language
type TesseractConfig struct {
	Binary string `yaml:"binary"`
	Lang   string `yaml:"lang" validate:"omitempty,min=3"`
}

// RateLimitConfig limits OCR requests per client IP
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" validate:"gte=0"`
	Burst int     `yaml:"burst" validate:"gte=0"`
}

// Defaults returns a Config with default values
func Defaults() Config {
	return Config{
		Addr:   "localhost:8000",
		Videos: map[string]string{},
		Tesseract: TesseractConfig{
			Binary: "tesseract",
			Lang:   "eng",
		},
		FFmpeg:  "ffmpeg",
		FFprobe: "ffprobe",
		RateLimit: RateLimitConfig{
			RPS:   2,
			Burst: 5,
		},
		CORSOrigins:    []string{"*"},
		LogLevel:       "info",
		RequestTimeout: 30 * time.Second,
	}
}

// LoadFromFile reads path over the defaults. An empty path returns the
// defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
