package plagiarism

import (
	"github.com/mini-maxit/anticheat/internal/similarity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Result of comparing two submissions. Percentage is the edit volume relative to the combined
// length of both comparable texts, in [0, 100]. The degraded result carries a zero Percentage,
// no Differences and empty texts: one of the submissions could not be compiled or disassembled.
type Result struct {
	Percentage      decimal.Decimal
	Differences     []similarity.Difference
	FirstToCompare  string
	SecondToCompare string

	degraded bool
}

func newDegradedResult() *Result {
	return &Result{Percentage: decimal.Zero, degraded: true}
}

// IsDegraded reports whether no comparison took place. Two empty comparable texts that were
// actually compared are not degraded.
func (r *Result) IsDegraded() bool {
	return r.degraded
}

func percentage(editVolume, totalLength int) decimal.Decimal {
	if totalLength == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(editVolume)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(totalLength)))
}
