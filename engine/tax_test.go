package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

func TestTaxOnRealizedGains(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 29
	cfg.StartingCash = -1000
	cfg.Assets = []scenario.Asset{liquidAsset("hi-basis", 1000), liquidAsset("lo-basis", 1000)}
	cfg.TaxBrackets = []scenario.TaxBracket{{Floor: 0, Ceiling: 1_000_000, Rate: 0.2}}

	opts := &Options{
		InitialLots: map[string][]Lot{
			"hi-basis": {{CostBasis: 800, Value: 1000}},
			"lo-basis": {{CostBasis: 200, Value: 1000}},
		},
		LiquidationOrder: []string{"hi-basis"},
	}

	res, err := Run(cfg, opts, nil)
	require.NoError(t, err)

	// Day 0 sells the full hi-basis asset: gain 1000-800=200, taxed 20%
	// at the first pseudo-month boundary.
	assert.InDelta(t, 200, res.Summary.RealizedGains, 1e-6)
	assert.InDelta(t, 40, res.Summary.TaxesPaid, 1e-6)
	assert.Equal(t, 1000.0, res.Summary.AssetEndingValues["lo-basis"])
}

func TestTaxProgressiveBrackets(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 29
	cfg.Incomes = []scenario.IncomeStream{
		{ID: "salary", Name: "salary", MonthlyAmount: 3000, Currency: fxrate.USD, DayOfMonth: 1},
	}
	cfg.TaxBrackets = []scenario.TaxBracket{
		{Floor: 0, Ceiling: 1000, Rate: 0.1},
		{Floor: 1000, Ceiling: 1_000_000, Rate: 0.3},
	}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	// 3000 of income: 1000 at 10% plus 2000 at 30%.
	assert.InDelta(t, 700, res.Summary.TaxesPaid, 1e-6)
}

func TestTaxOncePerPseudoMonth(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 89
	cfg.Incomes = []scenario.IncomeStream{
		{ID: "salary", Name: "salary", MonthlyAmount: 1000, Currency: fxrate.USD, DayOfMonth: 1},
	}
	cfg.TaxBrackets = []scenario.TaxBracket{{Floor: 0, Ceiling: 1_000_000, Rate: 0.1}}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	// Three tax events (days 29, 59, 89), each on that month's 1000.
	assert.InDelta(t, 300, res.Summary.TaxesPaid, 1e-6)
}

func TestNoTaxWhenNothingTaxable(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 29
	cfg.TaxBrackets = []scenario.TaxBracket{{Floor: 0, Ceiling: 1_000_000, Rate: 0.5}}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Summary.TaxesPaid)
}

func TestTaxIgnoresNegativeRealizedGains(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 29
	cfg.StartingCash = -90
	fund := liquidAsset("fund", 1000)
	fund.SalePenalty = 0.1
	cfg.Assets = []scenario.Asset{fund}
	cfg.TaxBrackets = []scenario.TaxBracket{{Floor: 0, Ceiling: 1_000_000, Rate: 0.2}}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	// The haircut sale realizes a loss; no tax event fires on it.
	assert.Less(t, res.Summary.RealizedGains, 0.0)
	assert.Zero(t, res.Summary.TaxesPaid)
}
