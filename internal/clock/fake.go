package clock

import "time"

// FakeClock is a Clock pinned to a fixed instant. Billing verdicts depend on
// calendar arithmetic against "now", so tests move this clock instead of
// sleeping.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// SetNow jumps the clock to an absolute instant.
func (c *FakeClock) SetNow(t time.Time) {
	c.now = t.UTC()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// AdvanceDays moves the clock forward by whole calendar days, which is how
// billing cycles are measured.
func (c *FakeClock) AdvanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}
