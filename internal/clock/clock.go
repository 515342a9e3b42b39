// Package clock supplies the single time source every comparison in the
// booking engine consumes.  The service timezone and the staging hour offset
// are applied here, once, so business logic never touches os.Getenv or
// time.Now directly.
package clock

import "time"

// Clock yields the canonical "now" for the service.  Hour and Minute are
// split out because the engine reasons in whole wall-clock hours; RefDate is
// the day-normalization shared by reservation creation, the duplicate-daily
// check and availability queries.
type Clock interface {
    Now() time.Time
    Hour() int
    Minute() int
    RefDate() time.Time
}

// OffsetClock is the production clock.  It reads the wall clock in the
// configured location and shifts it by a signed number of whole hours.  The
// offset exists for staging and manual testing only and is zero in
// production.
type OffsetClock struct {
    loc    *time.Location
    offset int
}

// NewOffset returns an OffsetClock for the given location and hour offset.
// A nil location falls back to UTC.
func NewOffset(loc *time.Location, offsetHours int) *OffsetClock {
    if loc == nil {
        loc = time.UTC
    }
    return &OffsetClock{loc: loc, offset: offsetHours}
}

// Now returns the shifted current time in the service location.
func (c *OffsetClock) Now() time.Time {
    return time.Now().In(c.loc).Add(time.Duration(c.offset) * time.Hour)
}

// Hour returns the current wall-clock hour (0–23) after the offset.
func (c *OffsetClock) Hour() int { return c.Now().Hour() }

// Minute returns the current minute after the offset.
func (c *OffsetClock) Minute() int { return c.Now().Minute() }

// RefDate returns the start of the current day in the service location.
// All reservations made "today" share this value.
func (c *OffsetClock) RefDate() time.Time {
    return dayStart(c.Now(), c.loc)
}

// Fixed is a controllable clock for tests.  It always reports the time it
// was set to.
type Fixed struct {
    current time.Time
}

// NewFixed returns a clock pinned to the supplied time.
func NewFixed(t time.Time) *Fixed { return &Fixed{current: t} }

// Now returns the pinned instant.
func (c *Fixed) Now() time.Time { return c.current }

// Hour returns the pinned hour.
func (c *Fixed) Hour() int { return c.current.Hour() }

// Minute returns the pinned minute.
func (c *Fixed) Minute() int { return c.current.Minute() }

// RefDate returns the start of the pinned day in the pinned location.
func (c *Fixed) RefDate() time.Time {
    return dayStart(c.current, c.current.Location())
}

// Set moves the clock to the provided time.
func (c *Fixed) Set(t time.Time) { c.current = t }

// Advance moves the clock forward by d and returns the updated time.
func (c *Fixed) Advance(d time.Duration) time.Time {
    c.current = c.current.Add(d)
    return c.current
}

func dayStart(t time.Time, loc *time.Location) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
