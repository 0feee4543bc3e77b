package domain

// FuturesSnapshot is one row of an optional `{symbol}_futures_1h.json`
// file: a funding rate observed at a point in time.
type FuturesSnapshot struct {
	Timestamp   int64   `json:"timestamp"`
	FundingRate float64 `json:"fundingRate"`
}

// FundingRateAt returns the funding rate in effect at or before
// timestamp — the last snapshot whose Timestamp <= timestamp — and
// whether any such snapshot exists. Snapshots must be sorted
// ascending by Timestamp.
func FundingRateAt(snapshots []FuturesSnapshot, timestamp int64) (float64, bool) {
	var best *FuturesSnapshot
	for i := range snapshots {
		s := snapshots[i]
		if s.Timestamp > timestamp {
			break
		}
		best = &snapshots[i]
	}
	if best == nil {
		return 0, false
	}
	return best.FundingRate, true
}
