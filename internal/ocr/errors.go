package ocr

import (
	"errors"
	"fmt"
)

// ErrUnavailable means the OCR service could not be reached or did not
// answer in time.
var ErrUnavailable = errors.New("ocr: service unavailable")

// StatusError is returned when the service answers with a non-200 status.
// Body is kept verbatim so it can be shown to the user.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ocr: status %d: %s", e.Status, e.Body)
}
