package engine

import (
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

// fxComponent publishes the day's exchange rates. It has no
// dependencies; the scheduler's lexicographic tie-break places "fx"
// ahead of the other zero-dependency components, so every converter
// sees the current day's rates.
type fxComponent struct {
	opts  *Options
	rates fxrate.Rates
}

func (c *fxComponent) ID() string             { return "fx" }
func (c *fxComponent) Dependencies() []string { return nil }

func (c *fxComponent) Prepare(day int, _ *DayState, cfg *scenario.Scenario) {
	if c.opts != nil {
		if pinned, ok := c.opts.FXRatesByDay[day]; ok {
			c.rates = pinned
			return
		}
	}
	c.rates = fxrate.ForDay(day, cfg.FX.BaseRates, cfg.FX.Volatility)
}

func (c *fxComponent) Apply(_ int, st *DayState, _ *scenario.Scenario) {
	st.FXRates = c.rates
}
