// internal/commission/reporter.go
package commission

import (
	"github.com/shopspring/decimal"
)

// KindStats is the per-kind breakdown inside a Summary.
type KindStats struct {
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	Average      decimal.Decimal `json:"average"`
	ShareOfTotal decimal.Decimal `json:"share_of_total"`
}

// Summary is the aggregate view over a set of commission records.
type Summary struct {
	Count   int                `json:"count"`
	Total   decimal.Decimal    `json:"total"`
	Average decimal.Decimal    `json:"average"`
	ByKind  map[Kind]KindStats `json:"by_kind"`
}

// Aggregate rolls up commission records into totals, counts and per-kind
// averages with each kind's share of the overall total. Every division is
// guarded: an empty input or a zero total yields zeros, never a panic.
func Aggregate(records []Record) Summary {
	summary := Summary{
		Total:   decimal.Zero,
		Average: decimal.Zero,
		ByKind:  make(map[Kind]KindStats),
	}

	for _, r := range records {
		summary.Count++
		summary.Total = summary.Total.Add(r.Commission)

		stats := summary.ByKind[r.Kind]
		stats.Count++
		stats.Total = stats.Total.Add(r.Commission)
		summary.ByKind[r.Kind] = stats
	}

	if summary.Count > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count)))
	}

	for kind, stats := range summary.ByKind {
		if stats.Count > 0 {
			stats.Average = stats.Total.Div(decimal.NewFromInt(int64(stats.Count)))
		}
		if !summary.Total.IsZero() {
			stats.ShareOfTotal = stats.Total.Div(summary.Total).Mul(hundred)
		} else {
			stats.ShareOfTotal = decimal.Zero
		}
		summary.ByKind[kind] = stats
	}

	return summary
}
