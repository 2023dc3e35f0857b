// Package scenario defines the simulation input configuration, file
// loading, and validation. A Scenario is pure data: the engine treats
// it as immutable for the whole run.
package scenario

import (
	"github.com/futurewallet/wallet/fxrate"
)

// AssetClass identifies the broad category of an asset holding.
type AssetClass string

const (
	ClassCash       AssetClass = "cash"
	ClassSavings    AssetClass = "savings"
	ClassIndexFund  AssetClass = "index_fund"
	ClassRealEstate AssetClass = "real_estate"
	ClassCrypto     AssetClass = "crypto"
)

// FXConfig carries the base rates the deterministic FX path oscillates
// around and the annual volatility driving both the oscillation
// amplitude and the analytic quantile bands.
type FXConfig struct {
	BaseRates  fxrate.Rates `json:"baseRates" yaml:"baseRates"`
	Volatility float64      `json:"volatility" yaml:"volatility"`
}

// IncomeStream is a recurring monthly income.
// DayOfMonth 1-28 pays the full amount on that pseudo-month day;
// 0 spreads the amount evenly across all 30 days.
type IncomeStream struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	MonthlyAmount float64         `json:"monthlyAmount" yaml:"monthlyAmount"`
	Currency      fxrate.Currency `json:"currency" yaml:"currency"`
	DayOfMonth    int             `json:"dayOfMonth" yaml:"dayOfMonth"`
}

// Expense is a recurring monthly expense, always spread across 30 days.
type Expense struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	MonthlyAmount float64         `json:"monthlyAmount" yaml:"monthlyAmount"`
	Currency      fxrate.Currency `json:"currency" yaml:"currency"`
	Essential     bool            `json:"essential" yaml:"essential"`
}

// Debt is an interest-bearing liability with a scheduled minimum payment.
type Debt struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Principal      float64         `json:"principal" yaml:"principal"`
	Currency       fxrate.Currency `json:"currency" yaml:"currency"`
	APR            float64         `json:"apr" yaml:"apr"`
	MinPayment     float64         `json:"minPayment" yaml:"minPayment"`
	MissedPayments int             `json:"missedPayments" yaml:"missedPayments"`
}

// Asset is a single holding subject to daily drift and, when liquid,
// forced sale under cash deficits.
type Asset struct {
	ID                 string          `json:"id" yaml:"id"`
	Name               string          `json:"name" yaml:"name"`
	Class              AssetClass      `json:"class" yaml:"class"`
	Value              float64         `json:"value" yaml:"value"`
	Currency           fxrate.Currency `json:"currency" yaml:"currency"`
	ExpectedReturn     float64         `json:"expectedReturn" yaml:"expectedReturn"`
	Volatility         float64         `json:"volatility" yaml:"volatility"`
	SalePenalty        float64         `json:"salePenalty" yaml:"salePenalty"`
	LiquidityDelayDays int             `json:"liquidityDelayDays" yaml:"liquidityDelayDays"`
	Locked             bool            `json:"locked" yaml:"locked"`
}

// TaxBracket taxes the slice of taxable income in [Floor, Ceiling) at
// its marginal rate. Brackets are consumed in configuration order.
type TaxBracket struct {
	Floor   float64 `json:"floor" yaml:"floor"`
	Ceiling float64 `json:"ceiling" yaml:"ceiling"`
	Rate    float64 `json:"rate" yaml:"rate"`
}

// ShockPreset is a one-off scheduled cash event. Amount is signed
// (negative = cost) and scaled by Severity when it fires.
type ShockPreset struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Day      int             `json:"day" yaml:"day"`
	Amount   float64         `json:"amount" yaml:"amount"`
	Currency fxrate.Currency `json:"currency" yaml:"currency"`
	Enabled  bool            `json:"enabled" yaml:"enabled"`
	Severity float64         `json:"severity" yaml:"severity"`
}

// Scenario is the complete input configuration for one simulation run.
type Scenario struct {
	Name             string          `json:"name" yaml:"name"`
	HorizonDays      int             `json:"horizonDays" yaml:"horizonDays"`
	BaseCurrency     fxrate.Currency `json:"baseCurrency" yaml:"baseCurrency"`
	FX               FXConfig        `json:"fx" yaml:"fx"`
	StartingCash     float64         `json:"startingCash" yaml:"startingCash"`
	Incomes          []IncomeStream  `json:"incomes" yaml:"incomes"`
	Expenses         []Expense       `json:"expenses" yaml:"expenses"`
	Debts            []Debt          `json:"debts" yaml:"debts"`
	Assets           []Asset         `json:"assets" yaml:"assets"`
	TaxBrackets      []TaxBracket    `json:"taxBrackets" yaml:"taxBrackets"`
	Shocks           []ShockPreset   `json:"shocks" yaml:"shocks"`
	CashReserveRatio float64         `json:"cashReserveRatio" yaml:"cashReserveRatio"`
}

// WithoutShocks returns a copy of the scenario with every shock
// disabled. Used for the counterfactual run.
func (s Scenario) WithoutShocks() Scenario {
	out := s
	out.Shocks = make([]ShockPreset, len(s.Shocks))
	for i, sh := range s.Shocks {
		sh.Enabled = false
		out.Shocks[i] = sh
	}
	return out
}
