package calculator

import (
	"sort"

	"TWStockDesk/internal/model"
)

// DefaultDividendPayments approximates a trailing year for quarterly payers.
const DefaultDividendPayments = 4

// SummarizeDividends sums the last n payments by date and expresses the sum
// as a percentage of latestClose. The input slice is not modified.
func SummarizeDividends(payments []model.DividendPayment, latestClose float64, n int) model.DividendSummary {
	if len(payments) == 0 || n <= 0 {
		return model.DividendSummary{}
	}

	sorted := make([]model.DividendPayment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	start := len(sorted) - n
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, p := range sorted[start:] {
		sum += p.Amount
	}

	summary := model.DividendSummary{TrailingSum: sum, Payments: len(sorted) - start}
	if latestClose > 0 {
		summary.YieldPct = sum / latestClose * 100
	}
	return summary
}
