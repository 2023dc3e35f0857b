package engine

import (
	"math"
	"sort"

	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

const lotEpsilon = 1e-9

// consumeLotsFIFO removes sellValue worth of value from the lots,
// oldest lot first and proportionally within a lot, returning the cost
// basis of what was consumed. Exhausted lots are dropped.
func consumeLotsFIFO(lots []Lot, sellValue float64) ([]Lot, float64) {
	remaining := sellValue
	consumed := 0.0

	for remaining > 0 && len(lots) > 0 {
		lot := &lots[0]
		take := math.Min(lot.Value, remaining)
		ratio := 0.0
		if lot.Value > 0 {
			ratio = take / lot.Value
		}
		consumed += lot.CostBasis * ratio

		lot.Value -= take
		lot.CostBasis -= lot.CostBasis * ratio
		remaining -= take

		if lot.Value <= lotEpsilon {
			lots = lots[1:]
		}
	}

	return lots, consumed
}

// assetComponent applies daily valuation drift and, when the balance
// falls below the reserve threshold, liquidates eligible assets to
// cover the deficit, tracking realized gains through FIFO lots.
type assetComponent struct {
	opts *Options

	valuationChanges  map[string]float64
	liquidationNeeded bool
}

func newAssetComponent(opts *Options) *assetComponent {
	return &assetComponent{
		opts:             opts,
		valuationChanges: make(map[string]float64),
	}
}

func (c *assetComponent) ID() string             { return "asset" }
func (c *assetComponent) Dependencies() []string { return []string{"income", "expense", "debt"} }

func (c *assetComponent) Prepare(_ int, st *DayState, cfg *scenario.Scenario) {
	clear(c.valuationChanges)
	c.liquidationNeeded = false

	for _, a := range cfg.Assets {
		if a.Locked {
			continue
		}
		c.valuationChanges[a.ID] = st.Assets[a.ID] * a.ExpectedReturn / 365
	}

	// Liquidate when negative, or when below a tenth of the required
	// cash reserve. The 10% factor is intentional, not a typo.
	requiredReserve := st.TotalAssetValue() * cfg.CashReserveRatio
	if st.Balance < 0 || st.Balance < requiredReserve*0.1 {
		c.liquidationNeeded = true
	}
}

func (c *assetComponent) Apply(_ int, st *DayState, cfg *scenario.Scenario) {
	for _, a := range cfg.Assets {
		st.Assets[a.ID] += c.valuationChanges[a.ID]
	}

	if !c.liquidationNeeded || st.Balance >= 0 {
		return
	}
	c.liquidate(st, cfg)
}

// liquidate sells eligible assets in priority order until the balance
// is non-negative or nothing sellable remains.
func (c *assetComponent) liquidate(st *DayState, cfg *scenario.Scenario) {
	priority := make(map[string]int)
	if c.opts != nil {
		for i, id := range c.opts.LiquidationOrder {
			priority[id] = i
		}
	}
	rank := func(id string) int {
		if r, ok := priority[id]; ok {
			return r
		}
		return math.MaxInt
	}

	var sellable []scenario.Asset
	for _, a := range cfg.Assets {
		if !a.Locked && a.LiquidityDelayDays == 0 {
			sellable = append(sellable, a)
		}
	}
	sort.Slice(sellable, func(i, j int) bool {
		a, b := sellable[i], sellable[j]
		if ra, rb := rank(a.ID), rank(b.ID); ra != rb {
			return ra < rb
		}
		if a.SalePenalty != b.SalePenalty {
			return a.SalePenalty < b.SalePenalty
		}
		return a.ID < b.ID
	})

	for _, a := range sellable {
		if st.Balance >= 0 {
			break
		}
		value := st.Assets[a.ID]
		if value <= 0 {
			continue
		}

		deficitBase := math.Abs(st.Balance)
		availableNetBase := fxrate.Convert(value*(1-a.SalePenalty), a.Currency, cfg.BaseCurrency, st.FXRates)
		proceedsBase := math.Min(availableNetBase, deficitBase)

		proceedsInAssetCurrency := fxrate.Convert(proceedsBase, cfg.BaseCurrency, a.Currency, st.FXRates)
		sellAmount := math.Min(value, proceedsInAssetCurrency/math.Max(lotEpsilon, 1-a.SalePenalty))
		proceeds := sellAmount * (1 - a.SalePenalty)

		lots, costBasisSold := consumeLotsFIFO(st.Lots[a.ID], sellAmount)
		st.Lots[a.ID] = lots

		realizedGain := proceeds - costBasisSold

		st.Assets[a.ID] = value - sellAmount
		st.Balance += fxrate.Convert(proceeds, a.Currency, cfg.BaseCurrency, st.FXRates)
		st.RealizedGains += fxrate.Convert(realizedGain, a.Currency, cfg.BaseCurrency, st.FXRates)
	}
}
