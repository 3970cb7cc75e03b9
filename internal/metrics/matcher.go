package metrics

import (
	"math"
	"strconv"
)

// ClosestValue returns the parsed value of the point whose timestamp is
// nearest the target. The backend answers "a window around T", not
// "exactly T", so exact alignment cannot be assumed. Ties keep the
// first-seen point; unparsable values read as 0. The series must not be
// empty (an empty series means no data and the caller skips the entity);
// an empty input yields 0.
func ClosestValue(points []Point, target float64) float64 {
	if len(points) == 0 {
		return 0
	}

	best := points[0]
	bestDist := math.Abs(points[0].Timestamp - target)
	for _, p := range points[1:] {
		if d := math.Abs(p.Timestamp - target); d < bestDist {
			best = p
			bestDist = d
		}
	}

	v, err := strconv.ParseFloat(best.Value, 64)
	if err != nil {
		return 0
	}
	return v
}
