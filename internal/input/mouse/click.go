package mouse

import "time"

// ClickCounter detects double and triple clicks from a stream of press
// events. It is a plain value meant to live inside application state:
// copying the state copies the counter, so earlier states are unaffected
// by later presses.
type ClickCounter struct {
	maxTime     time.Duration
	maxDistance int

	lastPos    Position
	lastButton Button
	lastTime   time.Time
	lastCount  int
}

// NewClickCounter creates a counter. Presses of the same button within
// maxTime and maxDistance cells of the previous press extend the sequence.
func NewClickCounter(maxTime time.Duration, maxDistance int) ClickCounter {
	return ClickCounter{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// Record records a press at the given time and returns the click count
// (1, 2, or 3). Non-press events return 0 and leave the state unchanged.
// The count wraps back to 1 after 3.
func (c *ClickCounter) Record(ev Event, at time.Time) int {
	if ev.Action != ActionPress {
		return 0
	}

	if c.isPartOfSequence(ev, at) {
		c.lastCount++
		if c.lastCount > 3 {
			c.lastCount = 1
		}
	} else {
		c.lastCount = 1
	}

	c.lastPos = ev.Position
	c.lastButton = ev.Button
	c.lastTime = at
	return c.lastCount
}

func (c *ClickCounter) isPartOfSequence(ev Event, at time.Time) bool {
	if c.lastCount == 0 || ev.Button != c.lastButton {
		return false
	}

	// Clock skew starts a new sequence.
	elapsed := at.Sub(c.lastTime)
	if elapsed < 0 || elapsed > c.maxTime {
		return false
	}
	return ev.Position.Distance(c.lastPos) <= c.maxDistance
}

// Reset clears the click tracking state.
func (c *ClickCounter) Reset() {
	*c = ClickCounter{maxTime: c.maxTime, maxDistance: c.maxDistance}
}

// ClickType represents the type of click detected.
type ClickType uint8

const (
	// ClickSingle is a single click.
	ClickSingle ClickType = 1
	// ClickDouble is a double click.
	ClickDouble ClickType = 2
	// ClickTriple is a triple click.
	ClickTriple ClickType = 3
)

// String returns a string representation of the click type.
func (c ClickType) String() string {
	switch c {
	case ClickSingle:
		return "single"
	case ClickDouble:
		return "double"
	case ClickTriple:
		return "triple"
	default:
		return "unknown"
	}
}
