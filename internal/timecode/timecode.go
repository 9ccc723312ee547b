// Package timecode converts between playback milliseconds and the text the
// player shows or accepts: "mm:ss.d" labels and "minutes:seconds" input.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Separators and formats
const (
	Separator      = ":"
	LabelSeparator = " / "
	minuteFormat   = "%02d"
	secondFormat   = "%02d.%d"
)

const (
	msPerTenth  = 100
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
)

// ErrParse is matched by every *ParseError
var ErrParse = errors.New("invalid timestamp")

// ParseError describes why a timestamp was rejected
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrParse) true for any ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Format renders ms as mm:ss.d. The minute field is ms/60000 and the
// seconds within that minute are rounded half up to tenths, so the last
// 50 ms of a minute print as 60.0. Negative input renders as zero.
func Format(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / msPerMinute
	tenthsTotal := (ms%msPerMinute + msPerTenth/2) / msPerTenth
	seconds := tenthsTotal / 10
	tenths := tenthsTotal % 10
	return fmt.Sprintf(minuteFormat+Separator+secondFormat, minutes, seconds, tenths)
}

// Label renders the "current / total" text shown beside the seek bar
func Label(currentMs, totalMs int64) string {
	return Format(currentMs) + LabelSeparator + Format(totalMs)
}

// Parse converts "minutes:seconds" into milliseconds. Seconds may exceed 59.
// The caller is responsible for range-checking against the media length.
func Parse(text string) (int64, error) {
	input := strings.TrimSpace(text)

	parts := strings.Split(input, Separator)
	switch {
	case len(parts) < 2:
		return 0, &ParseError{Input: text, Reason: "missing ':' separator"}
	case len(parts) > 2:
		return 0, &ParseError{Input: text, Reason: "expected minutes:seconds"}
	}

	minutes, err := parseField(parts[0])
	if err != nil {
		return 0, &ParseError{Input: text, Reason: "minutes " + err.Error()}
	}
	seconds, err := parseField(parts[1])
	if err != nil {
		return 0, &ParseError{Input: text, Reason: "seconds " + err.Error()}
	}

	if seconds > math.MaxInt64/msPerSecond ||
		minutes > (math.MaxInt64-seconds*msPerSecond)/msPerMinute {
		return 0, &ParseError{Input: text, Reason: "value too large"}
	}

	return minutes*msPerMinute + seconds*msPerSecond, nil
}

// parseField accepts a non-negative base-10 integer
func parseField(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("is empty")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("is not a number")
	}
	if v < 0 {
		return 0, errors.New("is negative")
	}
	return v, nil
}
