package analytics

import (
	"math"
	"strconv"
)

// Average is a rounded mean together with the number of samples behind it.
type Average struct {
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
}

// MeanOf returns sum/count rounded half-up to one decimal. The rounding is
// done on integers so x.x5 never falls to float error. count 0 yields 0.
func MeanOf(sum, count int64) Average {
	if count <= 0 {
		return Average{}
	}
	neg := sum < 0
	if neg {
		sum = -sum
	}
	tenths := (20*sum + count) / (2 * count)
	v := float64(tenths) / 10
	if neg {
		v = -v
	}
	return Average{Value: v, Samples: int(count)}
}

// String renders "0" for an empty average and one decimal otherwise.
func (a Average) String() string {
	if a.Samples == 0 {
		return "0"
	}
	return strconv.FormatFloat(a.Value, 'f', 1, 64)
}

// Round1 rounds a non-integer ratio half-up to one decimal.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return -Round1(-v)
	}
	return math.Floor(v*10+0.5+1e-9) / 10
}

// Percent is part/whole*100 rounded to one decimal; 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return Round1(float64(part) * 100 / float64(whole))
}
