package token

import (
	"strings"
	"testing"
)

func validParameters() Parameters {
	return Parameters{
		Name:        "Simulation Coin",
		Symbol:      "SIMC",
		Decimals:    9,
		Supply:      500_000_000,
		Description: "A token about reality being a simulation",
	}
}

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Parameters)
		wantErr bool
	}{
		{"valid", func(p *Parameters) {}, false},
		{"three letter symbol", func(p *Parameters) { p.Symbol = "SIM" }, false},
		{"five letter symbol", func(p *Parameters) { p.Symbol = "SIMUL" }, false},
		{"empty name", func(p *Parameters) { p.Name = "" }, true},
		{"name too long", func(p *Parameters) { p.Name = strings.Repeat("x", 32) }, true},
		{"lowercase symbol", func(p *Parameters) { p.Symbol = "simc" }, true},
		{"symbol too short", func(p *Parameters) { p.Symbol = "SI" }, true},
		{"symbol too long", func(p *Parameters) { p.Symbol = "SIMULS" }, true},
		{"symbol with digits", func(p *Parameters) { p.Symbol = "SIM1" }, true},
		{"wrong decimals", func(p *Parameters) { p.Decimals = 6 }, true},
		{"supply below range", func(p *Parameters) { p.Supply = 999_999 }, true},
		{"supply above range", func(p *Parameters) { p.Supply = 1_000_000_001 }, true},
		{"supply at lower bound", func(p *Parameters) { p.Supply = 1_000_000 }, false},
		{"supply at upper bound", func(p *Parameters) { p.Supply = 1_000_000_000 }, false},
		{"description too long", func(p *Parameters) { p.Description = strings.Repeat("d", 65) }, true},
		{"description at limit", func(p *Parameters) { p.Description = strings.Repeat("d", 64) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParameters()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
