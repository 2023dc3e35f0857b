// Package engine implements the deterministic day-by-day financial
// projection core: a dependency-ordered component graph executed over a
// copy-on-write daily state, with analytic quantile bands and run
// summary statistics. The package is pure computation: no I/O, no
// clock-dependent behavior beyond the elapsed-time measurement, and no
// shared state between runs.
package engine

import (
	"math"
	"time"

	"github.com/futurewallet/wallet/scenario"
)

// Snapshot is the per-day output record.
type Snapshot struct {
	Day         int     `json:"day"`
	Balance     float64 `json:"balance"`
	NAV         float64 `json:"nav"`
	CreditScore float64 `json:"creditScore"`
	BalanceP5   float64 `json:"balanceP5"`
	BalanceP95  float64 `json:"balanceP95"`
	NAVP5       float64 `json:"navP5"`
	NAVP95      float64 `json:"navP95"`
}

// Summary aggregates the run outcome.
type Summary struct {
	FinalBalance     float64 `json:"finalBalance"`
	FinalBalanceP5   float64 `json:"finalBalanceP5"`
	FinalBalanceP95  float64 `json:"finalBalanceP95"`
	FinalNAV         float64 `json:"finalNAV"`
	FinalNAVP5       float64 `json:"finalNAVP5"`
	FinalNAVP95      float64 `json:"finalNAVP95"`
	FinalCreditScore float64 `json:"finalCreditScore"`

	CollapseProbability    float64  `json:"collapseProbability"`
	CollapseDay            *int     `json:"collapseDay"`
	ShockResilienceIndex   float64  `json:"shockResilienceIndex"`
	ShockClusteringDensity float64  `json:"shockClusteringDensity"`
	ShockIntensityAverage  float64  `json:"shockIntensityAverage"`
	RecoverySlope          float64  `json:"recoverySlope"`
	VibeTier               VibeTier `json:"vibeTier"`
	LiquidityRatio         float64  `json:"liquidityRatio"`
	DeficitDays            int      `json:"deficitDays"`
	TaxesPaid              float64  `json:"taxesPaid"`
	RealizedGains          float64  `json:"realizedGains"`

	AssetEndingValues map[string]float64 `json:"assetEndingValues"`
}

// Result is the full output of one simulation run. DailySnapshots is
// full resolution and in-memory only; WeeklySnapshots (every 7th day)
// is the subset intended to leave the engine for persistence.
type Result struct {
	Scenario        scenario.Scenario `json:"input"`
	Summary         Summary           `json:"summary"`
	DailySnapshots  []Snapshot        `json:"dailySnapshots"`
	WeeklySnapshots []Snapshot        `json:"weeklySnapshots"`
	FiredShocks     []FiredShock      `json:"firedShocks"`
	ComputeTimeMs   float64           `json:"computeTimeMs"`
}

// Insights captures the deltas between the configured run and its
// no-shocks counterfactual.
type Insights struct {
	BalanceDeltaNoShocksVsActual float64 `json:"balanceDeltaNoShocksVsActual"`
	NAVDeltaNoShocksVsActual     float64 `json:"navDeltaNoShocksVsActual"`
}

// CounterfactualResult pairs the configured run with a run where every
// shock is disabled.
type CounterfactualResult struct {
	WithShocks    *Result  `json:"withShocks"`
	WithoutShocks *Result  `json:"withoutShocks"`
	Insights      Insights `json:"insights"`
}

// ProgressFunc receives coarse progress notifications (roughly every 50
// days) during a run.
type ProgressFunc func(day, totalDays int)

func buildComponents(opts *Options) ([]Component, *shockComponent) {
	shock := &shockComponent{}
	comps := []Component{
		&fxComponent{opts: opts},
		&incomeComponent{},
		&expenseComponent{},
		newDebtComponent(),
		newAssetComponent(opts),
		&taxComponent{},
		shock,
		metricsComponent{},
	}
	return comps, shock
}

// quantileBands returns the analytic P5/P95 band around an expected
// value using a lognormal approximation with sqrt-of-time volatility
// scaling.
func quantileBands(expected float64, day int, annualVolatility float64) (p5, p95 float64) {
	if day == 0 || annualVolatility == 0 {
		return expected, expected
	}

	sigma := annualVolatility * math.Sqrt(float64(day)/365)
	const z = 1.645 // 5th/95th percentile z-score

	p5 = expected * math.Exp(-z*sigma-0.5*sigma*sigma)
	p95 = expected * math.Exp(z*sigma-0.5*sigma*sigma)
	return p5, p95
}

// compositeVolatility is the value-weighted average of asset
// volatilities, defaulting to 10% annual when there are no assets.
func compositeVolatility(cfg *scenario.Scenario) float64 {
	if len(cfg.Assets) == 0 {
		return 0.1
	}
	weighted, total := 0.0, 0.0
	for _, a := range cfg.Assets {
		weighted += a.Volatility * a.Value
		total += a.Value
	}
	return weighted / math.Max(1, total)
}

// Run executes a full deterministic simulation of the scenario.
//
// The component graph is sorted once; each day clones the prior state,
// runs every component in order (prepare then apply), and emits a
// snapshot. Structural graph errors (unknown dependency, cycle) are the
// only error cases and surface before day 0 executes.
func Run(cfg scenario.Scenario, opts *Options, progress ProgressFunc) (*Result, error) {
	start := time.Now()

	comps, shock := buildComponents(opts)
	sorted, err := sortComponents(comps)
	if err != nil {
		return nil, err
	}

	state := newInitialState(&cfg, opts)

	daily := make([]Snapshot, 0, cfg.HorizonDays+1)
	var weekly []Snapshot

	deficitDays := 0
	consecutiveDeficit := 0
	maxDeficitStreak := 0

	vol := compositeVolatility(&cfg)

	for day := 0; day <= cfg.HorizonDays; day++ {
		state = state.Clone()
		state.Day = day

		for _, c := range sorted {
			c.Prepare(day, state, &cfg)
			c.Apply(day, state, &cfg)
		}

		if state.Balance < 0 {
			deficitDays++
			consecutiveDeficit++
			if consecutiveDeficit > maxDeficitStreak {
				maxDeficitStreak = consecutiveDeficit
			}
		} else {
			consecutiveDeficit = 0
		}

		balP5, balP95 := quantileBands(state.Balance, day, vol)
		navP5, navP95 := quantileBands(state.NAV(), day, vol)

		snap := state.snapshot(balP5, balP95, navP5, navP95)
		daily = append(daily, snap)
		if day%7 == 0 {
			weekly = append(weekly, snap)
		}

		if progress != nil && day%50 == 0 {
			progress(day, cfg.HorizonDays)
		}
	}

	final := daily[len(daily)-1]

	totalAssets := state.TotalAssetValue()
	nav := state.NAV()

	liquidityRatio := 0.0
	switch {
	case totalAssets > 0:
		liquidityRatio = state.Balance / (state.Balance + totalAssets)
	case state.Balance > 0:
		liquidityRatio = 1
	}

	debtServiceRatio := 0.0
	if state.TotalIncome > 0 {
		debtServiceRatio = state.TotalDebtPayments / state.TotalIncome
	}

	var collapseDay *int
	if maxDeficitStreak >= 90 {
		for i, s := range daily {
			if s.Balance < 0 {
				d := i
				collapseDay = &d
				break
			}
		}
	}

	endingValues := make(map[string]float64, len(cfg.Assets))
	for _, a := range cfg.Assets {
		endingValues[a.ID] = state.Assets[a.ID]
	}

	summary := Summary{
		FinalBalance:     final.Balance,
		FinalBalanceP5:   final.BalanceP5,
		FinalBalanceP95:  final.BalanceP95,
		FinalNAV:         final.NAV,
		FinalNAVP5:       final.NAVP5,
		FinalNAVP95:      final.NAVP95,
		FinalCreditScore: state.CreditScore,

		CollapseProbability:    collapseProbability(liquidityRatio, debtServiceRatio, consecutiveDeficit, state.CreditScore),
		CollapseDay:            collapseDay,
		ShockResilienceIndex:   ComputeRSI(liquidityRatio, debtServiceRatio, state.CreditScore, deficitDays),
		ShockClusteringDensity: shockClusteringDensity(len(shock.fired), cfg.HorizonDays),
		ShockIntensityAverage:  shockIntensityAverage(shock.fired),
		RecoverySlope:          recoverySlope(daily),
		VibeTier:               ComputeVibeTier(state.Balance, nav, state.CreditScore, deficitDays, liquidityRatio),
		LiquidityRatio:         liquidityRatio,
		DeficitDays:            deficitDays,
		TaxesPaid:              state.TaxesPaid,
		RealizedGains:          state.RealizedGains,

		AssetEndingValues: endingValues,
	}

	return &Result{
		Scenario:        cfg,
		Summary:         summary,
		DailySnapshots:  daily,
		WeeklySnapshots: weekly,
		FiredShocks:     shock.fired,
		ComputeTimeMs:   float64(time.Since(start)) / float64(time.Millisecond),
	}, nil
}

// RunCounterfactual runs the scenario twice, as configured and with all
// shocks disabled, and reports the final balance/NAV deltas.
func RunCounterfactual(cfg scenario.Scenario, opts *Options, progress ProgressFunc) (*CounterfactualResult, error) {
	withShocks, err := Run(cfg, opts, progress)
	if err != nil {
		return nil, err
	}
	withoutShocks, err := Run(cfg.WithoutShocks(), opts, nil)
	if err != nil {
		return nil, err
	}

	return &CounterfactualResult{
		WithShocks:    withShocks,
		WithoutShocks: withoutShocks,
		Insights: Insights{
			BalanceDeltaNoShocksVsActual: withoutShocks.Summary.FinalBalance - withShocks.Summary.FinalBalance,
			NAVDeltaNoShocksVsActual:     withoutShocks.Summary.FinalNAV - withShocks.Summary.FinalNAV,
		},
	}, nil
}

// collapseProbability maps a weighted blend of liquidity, debt-service,
// deficit-streak, and credit risk through a logistic curve to [0,1].
func collapseProbability(liquidityRatio, debtServiceRatio float64, deficitStreak int, creditScore float64) float64 {
	liquidityRisk := math.Max(0, 1-liquidityRatio*5)
	debtRisk := math.Min(1, debtServiceRatio*2)
	deficitRisk := math.Min(1, float64(deficitStreak)/90)
	creditRisk := math.Max(0, (650-creditScore)/350)

	risk := 0.3*liquidityRisk + 0.25*debtRisk + 0.25*deficitRisk + 0.2*creditRisk

	return 1 / (1 + math.Exp(-10*(risk-0.5)))
}

// recoverySlope is the mean balance increase on days immediately
// following a negative-balance day.
func recoverySlope(snapshots []Snapshot) float64 {
	total := 0.0
	periods := 0

	for i := 1; i < len(snapshots); i++ {
		prev, cur := snapshots[i-1], snapshots[i]
		if prev.Balance < 0 && cur.Balance > prev.Balance {
			total += cur.Balance - prev.Balance
			periods++
		}
	}

	if periods == 0 {
		return 0
	}
	return total / float64(periods)
}

// shockClusteringDensity normalizes the fired-shock count to a per-30-day rate.
func shockClusteringDensity(firedCount, horizonDays int) float64 {
	totalDays := math.Max(1, float64(horizonDays+1))
	return float64(firedCount) / totalDays * 30
}

// shockIntensityAverage is the mean absolute magnitude of fired shocks.
func shockIntensityAverage(fired []FiredShock) float64 {
	if len(fired) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range fired {
		total += math.Abs(f.Amount)
	}
	return total / float64(len(fired))
}
