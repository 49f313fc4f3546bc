package collection

import (
	"time"

	mstats "github.com/montanaflynn/stats"
)

// LatencyPercentile reports the p-th percentile (0-100) of recent query
// latencies, drawn from the same ring buffer Stats().LastQueryMS reads
// its most recent sample from. Returns 0 if no queries have run yet.
func (c *Collection) LatencyPercentile(p float64) (time.Duration, error) {
	samples := c.latencies.Get()
	if len(samples) == 0 {
		return 0, nil
	}
	ms := make(mstats.Float64Data, len(samples))
	for i, d := range samples {
		ms[i] = float64(d) / float64(time.Millisecond)
	}
	v, err := mstats.Percentile(ms, p)
	if err != nil {
		return 0, err
	}
	return time.Duration(v * float64(time.Millisecond)), nil
}
