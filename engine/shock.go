package engine

import (
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

// FiredShock records a shock that actually fired, with its impact
// already converted to the base currency.
type FiredShock struct {
	Day     int     `json:"day"`
	ShockID string  `json:"shockId"`
	Amount  float64 `json:"amount"`
}

// shockComponent fires each enabled preset exactly once, on its
// configured day, applying amount x severity to the balance.
type shockComponent struct {
	fired     []FiredShock
	dayImpact float64
}

func (c *shockComponent) ID() string             { return "shock" }
func (c *shockComponent) Dependencies() []string { return []string{"income", "expense"} }

func (c *shockComponent) Prepare(day int, st *DayState, cfg *scenario.Scenario) {
	c.dayImpact = 0
	for _, sh := range cfg.Shocks {
		if !sh.Enabled || sh.Day != day {
			continue
		}
		impact := fxrate.Convert(sh.Amount*sh.Severity, sh.Currency, cfg.BaseCurrency, st.FXRates)
		c.dayImpact += impact
		c.fired = append(c.fired, FiredShock{Day: day, ShockID: sh.ID, Amount: impact})
	}
}

func (c *shockComponent) Apply(_ int, st *DayState, _ *scenario.Scenario) {
	if c.dayImpact != 0 {
		st.Balance += c.dayImpact
		st.ShockImpact += c.dayImpact
	}
}
