package domain

import (
	"strings"
	"time"
)

type TimeRange string

const (
	TimeRange1D TimeRange = "1d"
	TimeRange1W TimeRange = "1w"
	TimeRange2W TimeRange = "2w"
	TimeRange1M TimeRange = "1m"
)

// TimeRanges lists the ranges in the order the time filter shows them.
var TimeRanges = []TimeRange{TimeRange1D, TimeRange1W, TimeRange2W, TimeRange1M}

func ParseTimeRange(s string) (TimeRange, error) {
	r := TimeRange(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case TimeRange1D, TimeRange1W, TimeRange2W, TimeRange1M:
		return r, nil
	default:
		return "", ErrUnknownTimeRange
	}
}

// Duration is the look-back window covered by the range.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case TimeRange1W:
		return 7 * 24 * time.Hour
	case TimeRange2W:
		return 14 * 24 * time.Hour
	case TimeRange1M:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Interval is the sampling step requested from the upstream history API.
func (r TimeRange) Interval() string {
	switch r {
	case TimeRange1D:
		return "5m"
	case TimeRange1W:
		return "1h"
	default:
		return "4h"
	}
}

// Window returns [now-Duration, now].
func (r TimeRange) Window(now time.Time) (from, to time.Time) {
	return now.Add(-r.Duration()), now
}
