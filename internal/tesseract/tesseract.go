// Package tesseract recognizes text in images with the tesseract CLI.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytget/cyclops/internal/platform"
)

// Defaults
const (
	DefaultBinary = "tesseract"
	DefaultLang   = "eng"
)

// Recognizer pipes images through tesseract
type Recognizer struct {
	binary string
	lang   string
	run    platform.CommandRunner
}

// New creates a recognizer; empty values use the defaults
func New(binary, lang string) *Recognizer {
	if binary == "" {
		binary = DefaultBinary
	}
	if lang == "" {
		lang = DefaultLang
	}
	return &Recognizer{
		binary: binary,
		lang:   lang,
		run:    platform.RunCommand,
	}
}

// BuildArgs reads the image from stdin and writes text to stdout
func BuildArgs(lang string) []string {
	return []string{"stdin", "stdout", "-l", lang}
}

// Recognize returns the text tesseract finds in image, trimmed
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}
	out, err := r.run(ctx, image, r.binary, BuildArgs(r.lang)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
