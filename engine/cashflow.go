package engine

import (
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

// dayInMonth maps a day index to its 1-based position in the 30-day
// pseudo-month cycle.
func dayInMonth(day int) int {
	return day%30 + 1
}

// incomeComponent credits monthly income streams. A stream with
// DayOfMonth 1-28 pays in full on that pseudo-month day; DayOfMonth 0
// spreads the amount evenly across all 30 days.
type incomeComponent struct {
	dailyTotal float64
}

func (c *incomeComponent) ID() string             { return "income" }
func (c *incomeComponent) Dependencies() []string { return nil }

func (c *incomeComponent) Prepare(day int, st *DayState, cfg *scenario.Scenario) {
	c.dailyTotal = 0
	dim := dayInMonth(day)
	for _, inc := range cfg.Incomes {
		if inc.DayOfMonth == 0 {
			c.dailyTotal += fxrate.Convert(inc.MonthlyAmount/30, inc.Currency, cfg.BaseCurrency, st.FXRates)
		} else if dim == inc.DayOfMonth {
			c.dailyTotal += fxrate.Convert(inc.MonthlyAmount, inc.Currency, cfg.BaseCurrency, st.FXRates)
		}
	}
}

func (c *incomeComponent) Apply(_ int, st *DayState, _ *scenario.Scenario) {
	st.Balance += c.dailyTotal
	st.TotalIncome += c.dailyTotal
}

// expenseComponent debits every expense at 1/30 of its monthly amount
// each day, regardless of configuration.
type expenseComponent struct {
	dailyTotal float64
}

func (c *expenseComponent) ID() string             { return "expense" }
func (c *expenseComponent) Dependencies() []string { return []string{"income"} }

func (c *expenseComponent) Prepare(_ int, st *DayState, cfg *scenario.Scenario) {
	c.dailyTotal = 0
	for _, exp := range cfg.Expenses {
		c.dailyTotal += fxrate.Convert(exp.MonthlyAmount/30, exp.Currency, cfg.BaseCurrency, st.FXRates)
	}
}

func (c *expenseComponent) Apply(_ int, st *DayState, _ *scenario.Scenario) {
	st.Balance -= c.dailyTotal
	st.TotalExpenses += c.dailyTotal
}
