package engine

import (
	"math"

	"github.com/futurewallet/wallet/scenario"
)

// taxComponent levies progressive tax once per pseudo-month (day 30 of
// the cycle) on income and net positive realized gains accrued since
// the previous tax event.
type taxComponent struct {
	taxDue          float64
	lastTaxedIncome float64
	lastTaxedGains  float64
}

func (c *taxComponent) ID() string { return "tax" }

func (c *taxComponent) Dependencies() []string {
	return []string{"income", "expense", "debt", "asset"}
}

func (c *taxComponent) Prepare(day int, st *DayState, cfg *scenario.Scenario) {
	c.taxDue = 0

	if dayInMonth(day) != 30 {
		return
	}

	monthIncome := st.TotalIncome - c.lastTaxedIncome
	monthGains := math.Max(0, st.RealizedGains-c.lastTaxedGains)
	c.lastTaxedIncome = st.TotalIncome
	c.lastTaxedGains = st.RealizedGains

	taxable := monthIncome + monthGains
	if taxable <= 0 {
		return
	}

	remaining := taxable
	for _, b := range cfg.TaxBrackets {
		if remaining <= 0 {
			break
		}
		width := math.Max(0, b.Ceiling-b.Floor)
		inBracket := math.Min(remaining, width)
		c.taxDue += inBracket * b.Rate
		remaining -= inBracket
	}
}

func (c *taxComponent) Apply(_ int, st *DayState, _ *scenario.Scenario) {
	if c.taxDue > 0 {
		st.Balance -= c.taxDue
		st.TaxesPaid += c.taxDue
	}
}
