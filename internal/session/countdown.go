package session

import "fmt"

// Countdown counts whole seconds down to zero. Every Start begins a new
// generation; ticks carrying an older generation are ignored, so at most
// one countdown is ever live.
type Countdown struct {
	total     int
	remaining int
	gen       uint64
	running   bool
}

// NewCountdown creates a stopped countdown of total seconds.
func NewCountdown(total int) *Countdown {
	return &Countdown{total: total, remaining: total}
}

// Start stops any previous run, resets the remaining time and returns the
// generation that live ticks must carry.
func (c *Countdown) Start() uint64 {
	c.gen++
	c.remaining = c.total
	c.running = true
	return c.gen
}

// Stop ends the current run. Pending ticks become stale.
func (c *Countdown) Stop() {
	c.running = false
}

// Live reports whether a tick of generation gen belongs to the current run.
func (c *Countdown) Live(gen uint64) bool {
	return c.running && gen == c.gen
}

// Tick consumes one second of a live run and reports whether the time is
// up. Stale ticks return ok=false and change nothing.
func (c *Countdown) Tick(gen uint64) (expired, ok bool) {
	if !c.Live(gen) {
		return false, false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.running = false
		return true, true
	}
	return false, true
}

// Generation returns the current generation.
func (c *Countdown) Generation() uint64 { return c.gen }

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Total returns the configured length in seconds.
func (c *Countdown) Total() int { return c.total }

// Running reports whether a run is in progress.
func (c *Countdown) Running() bool { return c.running }

// Clock renders the remaining time as MM:SS.
func (c *Countdown) Clock() string { return FormatClock(c.remaining) }

// FormatClock renders seconds as zero-padded MM:SS, e.g. 605 -> "10:05".
// Negative values render as "00:00".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
