package token

import "github.com/shopspring/decimal"

var (
	baseTransactionFee = decimal.NewFromFloat(0.0001)
	minLiquidity       = decimal.NewFromFloat(0.01)
	supplyDenominator  = decimal.NewFromInt(MaxSupply)
	one                = decimal.NewFromInt(1)
)

// DeriveCosts computes the SOL cost of launching a token with the given
// supply. The liquidity floor keeps dust-supply launches from producing an
// unfundable pool.
func DeriveCosts(supply int64) CostBreakdown {
	ratio := decimal.NewFromInt(supply).Div(supplyDenominator)

	liquidity := ratio
	if liquidity.LessThan(minLiquidity) {
		liquidity = minLiquidity
	}

	multiplier := ratio
	if multiplier.GreaterThan(one) {
		multiplier = one
	}

	total := baseTransactionFee.Add(liquidity)

	return CostBreakdown{
		BaseTransactionFee:  baseTransactionFee.InexactFloat64(),
		LiquidityMultiplier: multiplier.InexactFloat64(),
		InitialLiquidity:    liquidity.InexactFloat64(),
		TotalCost:           total.InexactFloat64(),
	}
}
