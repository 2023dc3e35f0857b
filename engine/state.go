package engine

import (
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

// Lot is a cost-basis tranche of an asset. Lots are kept oldest-first
// and consumed FIFO on partial sale to determine realized gain.
type Lot struct {
	CostBasis float64 `json:"costBasis" yaml:"costBasis"`
	Value     float64 `json:"value" yaml:"value"`
}

// Options are optional runtime overrides, mainly for tests and
// what-actually-happened replays.
type Options struct {
	// FXRatesByDay pins rates for specific days, taking precedence
	// over the deterministic path.
	FXRatesByDay map[int]fxrate.Rates
	// InitialLots overrides the default single-lot cost basis per asset.
	InitialLots map[string][]Lot
	// LiquidationOrder forces sale priority by asset id, lowest index first.
	LiquidationOrder []string
}

// DayState is the mutable aggregate for a single simulated day. It is
// deep-cloned before each day so components never mutate a prior day's
// state (copy-on-write).
type DayState struct {
	Day     int
	Balance float64
	Assets  map[string]float64 // asset id -> current value
	Debts   map[string]float64 // debt id -> current principal
	Lots    map[string][]Lot   // asset id -> FIFO lots
	FXRates fxrate.Rates

	CreditScore float64

	TotalIncome       float64
	TotalExpenses     float64
	TotalDebtPayments float64
	MissedPayments    int
	RealizedGains     float64
	TaxesPaid         float64
	ShockImpact       float64
}

const initialCreditScore = 650

func newInitialState(cfg *scenario.Scenario, opts *Options) *DayState {
	assets := make(map[string]float64, len(cfg.Assets))
	lots := make(map[string][]Lot, len(cfg.Assets))
	for _, a := range cfg.Assets {
		assets[a.ID] = a.Value

		if opts != nil && len(opts.InitialLots[a.ID]) > 0 {
			lots[a.ID] = append([]Lot(nil), opts.InitialLots[a.ID]...)
		} else {
			lots[a.ID] = []Lot{{CostBasis: a.Value, Value: a.Value}}
		}
	}

	debts := make(map[string]float64, len(cfg.Debts))
	for _, d := range cfg.Debts {
		debts[d.ID] = d.Principal
	}

	return &DayState{
		Day:         0,
		Balance:     cfg.StartingCash,
		Assets:      assets,
		Debts:       debts,
		Lots:        lots,
		FXRates:     cfg.FX.BaseRates,
		CreditScore: initialCreditScore,
	}
}

// Clone returns a deep copy sharing nothing with the receiver.
func (s *DayState) Clone() *DayState {
	out := *s

	out.Assets = make(map[string]float64, len(s.Assets))
	for id, v := range s.Assets {
		out.Assets[id] = v
	}
	out.Debts = make(map[string]float64, len(s.Debts))
	for id, v := range s.Debts {
		out.Debts[id] = v
	}
	out.Lots = make(map[string][]Lot, len(s.Lots))
	for id, lots := range s.Lots {
		out.Lots[id] = append([]Lot(nil), lots...)
	}

	return &out
}

// TotalAssetValue sums current asset values.
func (s *DayState) TotalAssetValue() float64 {
	total := 0.0
	for _, v := range s.Assets {
		total += v
	}
	return total
}

// TotalDebt sums current debt principals.
func (s *DayState) TotalDebt() float64 {
	total := 0.0
	for _, v := range s.Debts {
		total += v
	}
	return total
}

// NAV is net asset value: cash plus assets minus debt.
func (s *DayState) NAV() float64 {
	return s.Balance + s.TotalAssetValue() - s.TotalDebt()
}

// snapshot converts the state into an output record with the given
// quantile bands attached.
func (s *DayState) snapshot(balanceP5, balanceP95, navP5, navP95 float64) Snapshot {
	return Snapshot{
		Day:         s.Day,
		Balance:     s.Balance,
		NAV:         s.NAV(),
		CreditScore: s.CreditScore,
		BalanceP5:   balanceP5,
		BalanceP95:  balanceP95,
		NAVP5:       navP5,
		NAVP95:      navP95,
	}
}
