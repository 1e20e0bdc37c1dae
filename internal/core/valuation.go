package core

import "github.com/shopspring/decimal"

// Business constants of the valuation formula. Revenue is entered per
// semester, annualized, weighted and multiplied; together they amount to
// revenue * 4.5. Keep them separate, they are not tunables.
var (
	SemiannualToAnnual = decimal.NewFromInt(2)
	RevenueWeight      = decimal.RequireFromString("0.15")
	RevenueMultiple    = decimal.NewFromInt(15)
)

// ComputeValuation applies the fixed formula:
//
//	base  = revenue * 2 * 0.15 * 15
//	final = base + investment + cash + fixedAssets
func ComputeValuation(revenue, investment, cash, fixedAssets decimal.Decimal) decimal.Decimal {
	annual := revenue.Mul(SemiannualToAnnual)
	weighted := annual.Mul(RevenueWeight)
	base := weighted.Mul(RevenueMultiple)
	return base.Add(investment).Add(cash).Add(fixedAssets)
}

// Evaluate validates the inputs and computes their valuation.
func Evaluate(in Inputs) (decimal.Decimal, error) {
	if err := in.Validate(); err != nil {
		return decimal.Zero, err
	}
	return ComputeValuation(in.Revenue, in.Investment, in.Cash, in.FixedAssets), nil
}
