package playback

import "fmt"

const msPerSecond = 1000

// SkipController moves the engine by relative offsets. Forward and backward
// skips share Skip with a signed offset.
type SkipController struct {
	clock Clock
}

// NewSkipController creates a skip controller over clock
func NewSkipController(clock Clock) *SkipController {
	return &SkipController{clock: clock}
}

// Skip adds offsetSeconds to the current position and seeks there. The target
// goes through ClampTarget; when the length cannot be read only the lower
// bound applies and the engine handles the rest.
func (c *SkipController) Skip(offsetSeconds int) (int64, error) {
	current, err := c.clock.Time()
	if err != nil {
		return 0, fmt.Errorf("failed to read position: %w", err)
	}

	length, err := c.clock.Length()
	if err != nil {
		length = 0
	}

	target := ClampTarget(current+int64(offsetSeconds)*msPerSecond, length)
	if err := c.clock.SetTime(target); err != nil {
		return 0, fmt.Errorf("failed to seek to %d ms: %w", target, err)
	}
	return target, nil
}
