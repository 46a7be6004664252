package crawlview

import (
	"math"
	"strconv"

	"github.com/Bahjat/crawl-insight/internal/model"
)

// exactAbove is the magnitude from which every float64 is already a whole
// number, so rounding to two decimals is a no-op.
const exactAbove = 1 << 52

// round2 rounds half away from zero to two decimal places. NaN and ±Inf
// become 0 so no display value is ever non-finite.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if math.Abs(v) >= exactAbove {
		return v
	}
	return math.Round(v*100) / 100
}

// positive clamps negative, NaN and infinite values to 0.
func positive(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 0
}

func secondsToMS(seconds float64) float64 {
	return round2(positive(seconds) * 1000)
}

func bytesToKB(size float64) float64 {
	return round2(positive(size) / 1024)
}

// count converts a backend counter into a non-negative int, saturating at
// math.MaxInt.
func count(n model.Number) int {
	f := math.Round(positive(n.Float()))
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}

// label formats display with two decimals followed by suffix, or "-" when
// the raw value is 0. A zero value and a missing value look the same on
// screen; a raw value that rounds to 0 still shows as "0.00".
func label(raw, display float64, suffix string) string {
	if raw == 0 {
		return "-"
	}
	return strconv.FormatFloat(display, 'f', 2, 64) + suffix
}
