package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMedia means nothing is loaded, or playback is stopped.
	ErrNoMedia = errors.New("capture: no media loaded")
	// ErrOcrUnavailable means the OCR service could not be reached in time.
	ErrOcrUnavailable = errors.New("capture: OCR service unavailable")
)

// OcrRejectedError carries the service's status and body verbatim.
// Status is 0 when the failure did not come with an HTTP status.
type OcrRejectedError struct {
	Status int
	Body   string
}

func (e *OcrRejectedError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("capture: OCR failed: %s", e.Body)
	}
	return fmt.Sprintf("capture: OCR rejected the frame (status %d): %s", e.Status, e.Body)
}
