package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateAPIURL checks that the OCR endpoint is an absolute http(s) URL
func ValidateAPIURL(raw string) error {
	if err := validate.Var(raw, "required,url"); err != nil {
		return fmt.Errorf("invalid OCR API URL: %q", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid OCR API URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("OCR API URL must start with http:// or https://")
	}
	return nil
}
