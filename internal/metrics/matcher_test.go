package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestValue_PicksNearestTimestamp(t *testing.T) {
	t0 := float64(1_700_000_000)
	points := []Point{
		{Timestamp: t0, Value: "100"},
		{Timestamp: t0 + 240, Value: "150"},
		{Timestamp: t0 + 600, Value: "200"},
	}

	// t0+240 is 60s away from the target, t0+600 is 300s away.
	assert.Equal(t, 150.0, ClosestValue(points, t0+300))
}

func TestClosestValue_TieKeepsFirstSeen(t *testing.T) {
	points := []Point{
		{Timestamp: 100, Value: "1"},
		{Timestamp: 300, Value: "2"},
	}

	// Both points are 100s from the target.
	assert.Equal(t, 1.0, ClosestValue(points, 200))
}

func TestClosestValue_UnparsableReadsAsZero(t *testing.T) {
	points := []Point{{Timestamp: 100, Value: "NaN-ish garbage"}}

	assert.Equal(t, 0.0, ClosestValue(points, 100))
}

func TestClosestValue_EmptySeriesReadsAsZero(t *testing.T) {
	assert.Equal(t, 0.0, ClosestValue(nil, 100))
}

func TestEntityKey_JoinsOrderedLabelSubset(t *testing.T) {
	labels := map[string]string{
		"datname": "shop",
		"queryid": "812736",
		"usename": "app",
		"extra":   "ignored",
	}

	key := EntityKey(labels, []string{"datname", "queryid", "usename"})

	assert.Equal(t, "shop|812736|app", key)
}

func TestEntityKey_MissingLabelStaysEmpty(t *testing.T) {
	key := EntityKey(map[string]string{"datname": "shop"}, []string{"datname", "queryid"})

	assert.Equal(t, "shop|", key)
}
