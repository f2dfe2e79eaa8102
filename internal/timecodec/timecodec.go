// Package timecodec converts between elapsed durations and the MM:SS.CC
// notation used everywhere run times are shown or typed in.
package timecodec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pacedog/pacedog/internal/common"
)

// Format renders d as MM:SS.CC. Minutes are zero-padded to at least two
// digits and grow beyond that as needed; centiseconds are truncated, not
// rounded. Negative durations clamp to zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	cs := d.Milliseconds() / 10
	minutes := cs / 6000
	seconds := (cs / 100) % 60
	centis := cs % 100

	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}

// Parse reads either "minutes:seconds[.fraction]" or a bare
// "seconds[.fraction]" and returns the elapsed duration. Surrounding
// whitespace is ignored. Empty or non-numeric input yields
// common.ErrInvalidInput.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time string: %w", common.ErrInvalidInput)
	}

	var minutes float64
	secPart := s

	if before, after, found := strings.Cut(s, ":"); found {
		m, err := strconv.ParseFloat(strings.TrimSpace(before), 64)
		if err != nil {
			return 0, fmt.Errorf("minutes %q: %w", before, common.ErrInvalidInput)
		}
		minutes = m
		secPart = after
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(secPart), 64)
	if err != nil {
		return 0, fmt.Errorf("seconds %q: %w", secPart, common.ErrInvalidInput)
	}

	ms := (minutes*60 + seconds) * 1000
	// Round to whole nanoseconds so values like "10.52" survive the
	// float conversion exactly.
	return time.Duration(math.Round(ms * float64(time.Millisecond))), nil
}
