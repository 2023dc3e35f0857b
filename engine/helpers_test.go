package engine

import (
	"testing"

	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

// testScenario returns a minimal valid scenario with flat FX, no
// flows, and a single zero-rate tax bracket. Tests override fields as
// needed.
func testScenario(t *testing.T) scenario.Scenario {
	t.Helper()

	return scenario.Scenario{
		Name:         "test",
		HorizonDays:  30,
		BaseCurrency: fxrate.USD,
		FX: scenario.FXConfig{
			BaseRates:  fxrate.Rates{EUR: 1, PKR: 280},
			Volatility: 0,
		},
		StartingCash: 1000,
		TaxBrackets: []scenario.TaxBracket{
			{Floor: 0, Ceiling: 1_000_000, Rate: 0},
		},
		CashReserveRatio: 0,
	}
}

func liquidAsset(id string, value float64) scenario.Asset {
	return scenario.Asset{
		ID:       id,
		Name:     id,
		Class:    scenario.ClassSavings,
		Value:    value,
		Currency: fxrate.USD,
	}
}
