package billing

import (
	"math"
	"time"
)

const (
	// DefaultLookbackDays applies when an as-of date is given without a lookback
	DefaultLookbackDays = 90
	// DefaultRangeDays is the legacy window length when neither bound is given
	DefaultRangeDays = 30
)

// Window is the resolved reporting window, both bounds inclusive.
// LookbackDays is informational only.
type Window struct {
	From         time.Time
	To           time.Time
	LookbackDays int
}

// Empty reports whether no instant can fall inside the window
func (w Window) Empty() bool {
	return w.From.After(w.To)
}

// FromUnix is the lower bound in epoch seconds
func (w Window) FromUnix() int64 {
	return w.From.Unix()
}

// ToUnix is the upper bound in epoch seconds, truncated
func (w Window) ToUnix() int64 {
	return w.To.Unix()
}

// WindowSpec is one of the calling conventions of the unremitted report
type WindowSpec interface {
	Resolve(now time.Time) Window
}

// AsOfWindow ends the window at the close of AsOf's UTC day and reaches back LookbackDays.
// A nil LookbackDays means DefaultLookbackDays.
type AsOfWindow struct {
	AsOf         time.Time
	LookbackDays *int
}

// Resolve implements WindowSpec
func (s AsOfWindow) Resolve(_ time.Time) Window {
	lookback := DefaultLookbackDays
	if s.LookbackDays != nil {
		lookback = *s.LookbackDays
	}

	end := EndOfDay(s.AsOf)
	return Window{
		From:         end.AddDate(0, 0, -lookback),
		To:           end,
		LookbackDays: lookback,
	}
}

// RangeWindow is the legacy from/to convention. Bounds are used verbatim;
// a nil From means now minus DefaultRangeDays and a nil To means now.
type RangeWindow struct {
	From *time.Time
	To   *time.Time
}

// Resolve implements WindowSpec
func (s RangeWindow) Resolve(now time.Time) Window {
	now = now.UTC()
	from := now.AddDate(0, 0, -DefaultRangeDays)
	if s.From != nil {
		from = s.From.UTC()
	}
	to := now
	if s.To != nil {
		to = s.To.UTC()
	}

	days := to.Sub(from).Hours() / 24
	return Window{
		From:         from,
		To:           to,
		LookbackDays: int(math.Ceil(days)),
	}
}

// EndOfDay returns 23:59:59.999 UTC on t's UTC calendar day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
