// Package speed converts a distance and an elapsed duration into km/h.
package speed

import (
	"math"
	"time"
)

// KmH returns the speed in km/h for distanceM meters covered in elapsed.
// Non-positive elapsed yields 0; callers never see division by zero,
// infinity, or NaN.
func KmH(distanceM int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(distanceM) * 3.6 / elapsed.Seconds()
}

// StoredKmH is KmH rounded to four decimal places, the precision a Run
// persists. Display rounding to two decimals is the front end's concern;
// keeping extra digits here keeps leaderboard ordering stable.
func StoredKmH(distanceM int, elapsed time.Duration) float64 {
	return math.Round(KmH(distanceM, elapsed)*10000) / 10000
}
