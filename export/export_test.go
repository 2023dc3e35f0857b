package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurewallet/wallet/engine"
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

func runFixture(t *testing.T) *engine.Result {
	t.Helper()

	cfg := scenario.Scenario{
		Name:         "export fixture",
		HorizonDays:  14,
		BaseCurrency: fxrate.USD,
		FX: scenario.FXConfig{
			BaseRates:  fxrate.Rates{EUR: 0.9, PKR: 280},
			Volatility: 0,
		},
		StartingCash: 800,
		Incomes: []scenario.IncomeStream{
			{ID: "salary", Name: "Salary", MonthlyAmount: 3000, Currency: fxrate.USD, DayOfMonth: 1},
		},
		TaxBrackets: []scenario.TaxBracket{{Floor: 0, Ceiling: 1_000_000, Rate: 0.1}},
		Shocks: []scenario.ShockPreset{
			{ID: "vet", Name: "Vet", Day: 3, Amount: -150, Currency: fxrate.USD, Enabled: true, Severity: 1},
		},
	}

	res, err := engine.Run(cfg, nil, nil)
	require.NoError(t, err)
	return res
}

func TestToCSVHeaderAndRows(t *testing.T) {
	res := runFixture(t)

	out, err := ToCSV(res, "export fixture")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "scenarioName,day,balance,balanceP5,balanceP95,nav,navP5,navP95,creditScore", lines[0])
	assert.Len(t, lines, 1+15) // header + one row per day 0..14

	first := strings.Split(lines[1], ",")
	assert.Equal(t, "export fixture", first[0])
	assert.Equal(t, "0", first[1])
}

func TestToCSVQuotesCommas(t *testing.T) {
	res := runFixture(t)

	out, err := ToCSV(res, `name, with comma`)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[1], `"name, with comma",`))
}

func TestToJSONDocument(t *testing.T) {
	res := runFixture(t)
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := ToJSON(res, "export fixture", generated)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "export fixture", doc.ScenarioName)
	assert.True(t, doc.GeneratedAt.Equal(generated))
	assert.Len(t, doc.WeeklySnapshots, 3) // days 0, 7, 14
	require.Len(t, doc.FiredShocks, 1)
	assert.Equal(t, 3, doc.FiredShocks[0].Day)
	assert.Equal(t, res.Summary.FinalBalance, doc.Summary.FinalBalance)
}
