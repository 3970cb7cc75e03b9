package metrics

import (
	"sort"
	"time"
)

// Collection is all the series answered for one named metric.
type Collection struct {
	Name   string
	Series []Series
}

// Record aggregates the metric values of one entity at one instant.
type Record struct {
	Labels  map[string]string
	Metrics map[string]float64
}

// Snapshot maps entity key to its record at one instant.
type Snapshot map[string]*Record

// BuildSnapshot groups samples by metric name, then by entity key, and
// picks each value via nearest-timestamp matching against the target.
// Series with no points are skipped rather than recorded as zero.
func BuildSnapshot(collections []Collection, keyLabels []string, target float64) Snapshot {
	snap := make(Snapshot)
	for _, col := range collections {
		for _, s := range col.Series {
			if len(s.Points) == 0 {
				continue
			}
			key := EntityKey(s.Labels, keyLabels)
			rec, ok := snap[key]
			if !ok {
				labels := make(map[string]string, len(keyLabels))
				for _, l := range keyLabels {
					labels[l] = s.Labels[l]
				}
				rec = &Record{Labels: labels, Metrics: make(map[string]float64)}
				snap[key] = rec
			}
			rec.Metrics[col.Name] = ClosestValue(s.Points, target)
		}
	}
	return snap
}

// DiffResult is the per-entity outcome of comparing two snapshots.
type DiffResult struct {
	Key             string
	Labels          map[string]string
	Metrics         map[string]float64 // end-snapshot values
	Deltas          map[string]float64
	Rates           map[string]float64
	DurationSeconds int64
}

// Diff computes deltas and per-second rates between two snapshots. Only
// entities present in the end snapshot produce a result; an entity with
// no start record uses its own end value as the delta, so first-seen
// counters are not reported as zero activity. Negative deltas (counter
// resets) are preserved as-is. Results are sorted by the dominant
// metric's delta, descending, stable for equal values.
func Diff(start, end Snapshot, startTime, endTime time.Time, sortMetric string) []DiffResult {
	duration := int64(endTime.Sub(startTime).Seconds())
	if duration < 0 {
		duration = 0
	}

	keys := make([]string, 0, len(end))
	for key := range end {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]DiffResult, 0, len(keys))
	for _, key := range keys {
		rec := end[key]
		res := DiffResult{
			Key:             key,
			Labels:          rec.Labels,
			Metrics:         rec.Metrics,
			Deltas:          make(map[string]float64, len(rec.Metrics)),
			Rates:           make(map[string]float64, len(rec.Metrics)),
			DurationSeconds: duration,
		}
		for name, endVal := range rec.Metrics {
			delta := endVal
			if startRec, ok := start[key]; ok {
				if startVal, has := startRec.Metrics[name]; has {
					delta = endVal - startVal
				}
			}
			res.Deltas[name] = delta
			if duration == 0 {
				res.Rates[name] = 0
			} else {
				res.Rates[name] = delta / float64(duration)
			}
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Deltas[sortMetric] > results[j].Deltas[sortMetric]
	})
	return results
}

// Row flattens a DiffResult into the report data shape: end values under
// the metric name, deltas as delta_<metric>, rates as
// rate_<metric>_per_sec, plus identifying labels and the window length.
func (d DiffResult) Row() map[string]any {
	row := make(map[string]any, 2*len(d.Metrics)+len(d.Labels)+2)
	for l, v := range d.Labels {
		row[l] = v
	}
	for name, v := range d.Metrics {
		row[name] = v
	}
	for name, v := range d.Deltas {
		row["delta_"+name] = v
	}
	for name, v := range d.Rates {
		row["rate_"+name+"_per_sec"] = v
	}
	row["duration_seconds"] = d.DurationSeconds
	return row
}
