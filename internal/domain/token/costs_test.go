package token

import (
	"math"
	"testing"
)

func TestDeriveCosts(t *testing.T) {
	tests := []struct {
		name           string
		supply         int64
		wantLiquidity  float64
		wantMultiplier float64
		wantTotal      float64
	}{
		{
			name:           "max supply",
			supply:         1_000_000_000,
			wantLiquidity:  1.0,
			wantMultiplier: 1.0,
			wantTotal:      1.0001,
		},
		{
			name:           "half supply",
			supply:         500_000_000,
			wantLiquidity:  0.5,
			wantMultiplier: 0.5,
			wantTotal:      0.5001,
		},
		{
			name:           "min supply hits liquidity floor",
			supply:         1_000_000,
			wantLiquidity:  0.01,
			wantMultiplier: 0.001,
			wantTotal:      0.0101,
		},
		{
			name:           "small supply below floor",
			supply:         5_000_000,
			wantLiquidity:  0.01,
			wantMultiplier: 0.005,
			wantTotal:      0.0101,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs := DeriveCosts(tt.supply)

			if costs.BaseTransactionFee != 0.0001 {
				t.Errorf("BaseTransactionFee = %v, want 0.0001", costs.BaseTransactionFee)
			}
			if !closeTo(costs.InitialLiquidity, tt.wantLiquidity) {
				t.Errorf("InitialLiquidity = %v, want %v", costs.InitialLiquidity, tt.wantLiquidity)
			}
			if !closeTo(costs.LiquidityMultiplier, tt.wantMultiplier) {
				t.Errorf("LiquidityMultiplier = %v, want %v", costs.LiquidityMultiplier, tt.wantMultiplier)
			}
			if !closeTo(costs.TotalCost, tt.wantTotal) {
				t.Errorf("TotalCost = %v, want %v", costs.TotalCost, tt.wantTotal)
			}
		})
	}
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
