package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

func TestRunDeterminism(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 365
	cfg.FX.Volatility = 0.5
	cfg.Incomes = []scenario.IncomeStream{
		{ID: "salary", Name: "salary", MonthlyAmount: 4000, Currency: fxrate.EUR, DayOfMonth: 1},
	}
	cfg.Expenses = []scenario.Expense{
		{ID: "rent", Name: "rent", MonthlyAmount: 1500, Currency: fxrate.USD},
	}
	cfg.Debts = []scenario.Debt{
		{ID: "card", Name: "card", Principal: 3000, Currency: fxrate.USD, APR: 0.18, MinPayment: 150},
	}
	cfg.Assets = []scenario.Asset{
		{ID: "fund", Name: "fund", Class: scenario.ClassIndexFund, Value: 10000,
			Currency: fxrate.USD, ExpectedReturn: 0.07, Volatility: 0.15},
	}
	cfg.Shocks = []scenario.ShockPreset{
		{ID: "repair", Name: "repair", Day: 90, Amount: -2000, Currency: fxrate.USD, Enabled: true, Severity: 1},
	}

	a, err := Run(cfg, nil, nil)
	require.NoError(t, err)
	b, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	// Bit-identical across runs; only the elapsed-time measurement may differ.
	assert.Equal(t, a.DailySnapshots, b.DailySnapshots)
	assert.Equal(t, a.WeeklySnapshots, b.WeeklySnapshots)
	assert.Equal(t, a.FiredShocks, b.FiredShocks)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestRunSnapshotDays(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 100

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	require.Len(t, res.DailySnapshots, 101)
	for i, s := range res.DailySnapshots {
		assert.Equal(t, i, s.Day)
	}
}

func TestRunWeeklySubset(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 60
	cfg.Assets = []scenario.Asset{
		{ID: "fund", Name: "fund", Class: scenario.ClassIndexFund, Value: 5000,
			Currency: fxrate.USD, ExpectedReturn: 0.05, Volatility: 0.2},
	}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	var expected []Snapshot
	for _, s := range res.DailySnapshots {
		if s.Day%7 == 0 {
			expected = append(expected, s)
		}
	}
	assert.Equal(t, expected, res.WeeklySnapshots)
}

func TestRunFXRealizationAtPinnedRates(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 0
	cfg.StartingCash = 0
	cfg.Incomes = []scenario.IncomeStream{
		{ID: "eur-salary", Name: "EUR salary", MonthlyAmount: 3000, Currency: fxrate.EUR, DayOfMonth: 1},
	}
	cfg.Expenses = []scenario.Expense{
		{ID: "usd-rent", Name: "rent", MonthlyAmount: 3000, Currency: fxrate.USD, Essential: true},
	}

	opts := &Options{
		FXRatesByDay: map[int]fxrate.Rates{
			0: {EUR: 2, PKR: 280},
		},
	}

	res, err := Run(cfg, opts, nil)
	require.NoError(t, err)

	// Income 3000 EUR at 2 EUR/USD = 1500 USD, expense 3000/30 = 100 USD.
	assert.InDelta(t, 1400, res.DailySnapshots[0].Balance, 1e-6)
}

func TestRunProgressEvery50Days(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 120

	var calls [][2]int
	_, err := Run(cfg, nil, func(day, total int) {
		calls = append(calls, [2]int{day, total})
	})
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{0, 120}, {50, 120}, {100, 120}}, calls)
}

func TestRunCreditScoreBounds(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 200
	cfg.StartingCash = 50
	cfg.Debts = []scenario.Debt{
		{ID: "loan", Name: "loan", Principal: 50000, Currency: fxrate.USD, APR: 0.3, MinPayment: 2000},
	}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	for _, s := range res.DailySnapshots {
		assert.GreaterOrEqual(t, s.CreditScore, 300.0, "day %d", s.Day)
		assert.LessOrEqual(t, s.CreditScore, 850.0, "day %d", s.Day)
	}
}

func TestQuantileBands(t *testing.T) {
	p5, p95 := quantileBands(1000, 0, 0.5)
	assert.Equal(t, 1000.0, p5)
	assert.Equal(t, 1000.0, p95)

	p5, p95 = quantileBands(1000, 365, 0)
	assert.Equal(t, 1000.0, p5)
	assert.Equal(t, 1000.0, p95)

	p5, p95 = quantileBands(1000, 365, 0.2)
	assert.Less(t, p5, 1000.0)
	assert.Greater(t, p95, 1000.0)
}

func TestCompositeVolatilityDefaultsWithoutAssets(t *testing.T) {
	cfg := testScenario(t)
	assert.Equal(t, 0.1, compositeVolatility(&cfg))

	cfg.Assets = []scenario.Asset{
		{ID: "a", Name: "a", Class: scenario.ClassIndexFund, Value: 3000, Currency: fxrate.USD, Volatility: 0.2},
		{ID: "b", Name: "b", Class: scenario.ClassSavings, Value: 1000, Currency: fxrate.USD, Volatility: 0.0},
	}
	assert.InDelta(t, 0.15, compositeVolatility(&cfg), 1e-9)
}

func TestRunCounterfactualInsights(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 30
	cfg.Shocks = []scenario.ShockPreset{
		{ID: "medical", Name: "medical", Day: 10, Amount: -2500, Currency: fxrate.USD, Enabled: true, Severity: 1},
	}

	res, err := RunCounterfactual(cfg, nil, nil)
	require.NoError(t, err)

	require.Len(t, res.WithShocks.FiredShocks, 1)
	assert.Empty(t, res.WithoutShocks.FiredShocks)

	assert.Equal(t,
		res.WithoutShocks.Summary.FinalBalance-res.WithShocks.Summary.FinalBalance,
		res.Insights.BalanceDeltaNoShocksVsActual)
	assert.Equal(t,
		res.WithoutShocks.Summary.FinalNAV-res.WithShocks.Summary.FinalNAV,
		res.Insights.NAVDeltaNoShocksVsActual)

	// The shock is the only difference between the runs.
	assert.InDelta(t, 2500, res.Insights.BalanceDeltaNoShocksVsActual, 1e-6)
}

func TestRunAssetEndingValues(t *testing.T) {
	cfg := testScenario(t)
	cfg.HorizonDays = 10
	cfg.Assets = []scenario.Asset{
		liquidAsset("savings", 1000),
		{ID: "house", Name: "house", Class: scenario.ClassRealEstate, Value: 90000,
			Currency: fxrate.USD, Locked: true},
	}

	res, err := Run(cfg, nil, nil)
	require.NoError(t, err)

	require.Len(t, res.Summary.AssetEndingValues, 2)
	assert.Equal(t, 90000.0, res.Summary.AssetEndingValues["house"])
	assert.InDelta(t, 1000.0, res.Summary.AssetEndingValues["savings"], 1e-6)
}
