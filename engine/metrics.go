package engine

import (
	"math"

	"github.com/futurewallet/wallet/scenario"
)

// VibeTier is the qualitative financial-health classification.
type VibeTier string

const (
	TierThriving VibeTier = "Thriving"
	TierStable   VibeTier = "Stable"
	TierStressed VibeTier = "Stressed"
	TierCrisis   VibeTier = "Crisis"
	TierCollapse VibeTier = "Collapse"
)

// ComputeVibeTier classifies financial health, most severe condition
// first.
func ComputeVibeTier(balance, nav, creditScore float64, deficitDays int, liquidityRatio float64) VibeTier {
	switch {
	case deficitDays >= 90 || nav < 0:
		return TierCollapse
	case deficitDays >= 30 || creditScore < 400 || liquidityRatio < 0.05:
		return TierCrisis
	case deficitDays >= 7 || creditScore < 550 || liquidityRatio < 0.15:
		return TierStressed
	case creditScore >= 700 && liquidityRatio >= 0.3 && balance > 0:
		return TierThriving
	}
	return TierStable
}

// ComputeRSI returns the Shock Resilience Index, a 0-100 composite of
// liquidity (max 30), debt service (max 30), credit score (max 25), and
// deficit stability (max 15).
func ComputeRSI(liquidityRatio, debtServiceRatio, creditScore float64, deficitDays int) float64 {
	liquidity := math.Min(liquidityRatio*100, 30)
	debt := math.Max(0, 30-debtServiceRatio*50)
	credit := (creditScore - 300) / 550 * 25
	stability := math.Max(0, 15-float64(deficitDays)*0.5)

	rsi := liquidity + debt + credit + stability
	return math.Max(0, math.Min(100, rsi))
}

const (
	creditScoreMin = 300
	creditScoreMax = 850
)

// updateCreditScore applies the daily adjustment: penalties for missed
// payments and debt load, a small age bonus, and a constant drift,
// clamped to the valid score range.
func updateCreditScore(current, debtRatio float64, missedPayments, day int) float64 {
	punctualityPenalty := float64(missedPayments) * 5
	debtPenalty := math.Min(debtRatio*100, 200)
	ageBonus := math.Min(float64(day)*0.01, 50)

	score := current - punctualityPenalty - debtPenalty + ageBonus + 0.5
	return math.Max(creditScoreMin, math.Min(creditScoreMax, score))
}

// metricsComponent updates the credit score at the end of each day.
// Day 0 keeps the fixed starting score.
type metricsComponent struct{}

func (metricsComponent) ID() string { return "metrics" }

func (metricsComponent) Dependencies() []string {
	return []string{"income", "expense", "debt", "asset", "shock"}
}

func (metricsComponent) Prepare(_ int, _ *DayState, _ *scenario.Scenario) {}

func (metricsComponent) Apply(day int, st *DayState, _ *scenario.Scenario) {
	if day == 0 {
		return
	}

	nav := st.NAV()
	debtRatio := 1.0
	if nav > 0 {
		debtRatio = st.TotalDebt() / nav
	}

	st.CreditScore = updateCreditScore(st.CreditScore, debtRatio, st.MissedPayments, day)
}
