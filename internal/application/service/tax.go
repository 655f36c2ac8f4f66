package service

import (
	"github.com/shopspring/decimal"
)

var (
	// IVARate is the Chilean value-added tax
	IVARate = decimal.RequireFromString("0.19")

	// netTolerance is the drift allowed between a stored order net and the
	// net recomputed from its items
	netTolerance = decimal.RequireFromString("0.01")
)

// Totals holds the money fields of a receipt
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Total decimal.Decimal
}

// ComputeTotals applies IVA to net. Tax and total are rounded half away
// from zero to two decimals.
func ComputeTotals(net decimal.Decimal) Totals {
	tax := net.Mul(IVARate).Round(2)
	return Totals{
		Net:   net,
		Tax:   tax,
		Total: net.Add(tax).Round(2),
	}
}

// reconcileNet picks the net a receipt is computed from. The recomputed
// value is used unless it differs from the stored one by more than
// netTolerance, in which case the stored net is kept and drifted is true.
func reconcileNet(recomputed, stored decimal.Decimal) (net decimal.Decimal, drifted bool) {
	if recomputed.Sub(stored).Abs().GreaterThan(netTolerance) {
		return stored, true
	}
	return recomputed, false
}
