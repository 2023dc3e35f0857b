package scenario

import (
	"fmt"

	"github.com/futurewallet/wallet/fxrate"
)

const (
	// MaxHorizonDays caps a run at five years.
	MaxHorizonDays = 1825

	maxNameLen    = 100
	maxVolatility = 2
)

func validClass(c AssetClass) bool {
	switch c {
	case ClassCash, ClassSavings, ClassIndexFund, ClassRealEstate, ClassCrypto:
		return true
	}
	return false
}

// Validate checks every field of the scenario against its allowed
// range. The engine assumes it only ever sees a scenario that passed
// this check and does not re-validate.
func (s *Scenario) Validate() error {
	if s.Name == "" || len(s.Name) > maxNameLen {
		return fmt.Errorf("scenario: name must be 1-%d characters", maxNameLen)
	}
	if s.HorizonDays < 1 || s.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("scenario: horizonDays %d out of range [1,%d]", s.HorizonDays, MaxHorizonDays)
	}
	if !fxrate.Known(s.BaseCurrency) {
		return fmt.Errorf("scenario: unsupported base currency %q", s.BaseCurrency)
	}
	if s.FX.BaseRates.EUR <= 0 || s.FX.BaseRates.PKR <= 0 {
		return fmt.Errorf("scenario: fx base rates must be positive")
	}
	if s.FX.Volatility < 0 || s.FX.Volatility > maxVolatility {
		return fmt.Errorf("scenario: fx volatility %g out of range [0,%d]", s.FX.Volatility, maxVolatility)
	}
	if s.CashReserveRatio < 0 || s.CashReserveRatio > 1 {
		return fmt.Errorf("scenario: cashReserveRatio %g out of range [0,1]", s.CashReserveRatio)
	}

	for i, inc := range s.Incomes {
		if inc.ID == "" {
			return fmt.Errorf("scenario: incomes[%d] missing id", i)
		}
		if inc.MonthlyAmount < 0 {
			return fmt.Errorf("scenario: income %q has negative amount", inc.ID)
		}
		if !fxrate.Known(inc.Currency) {
			return fmt.Errorf("scenario: income %q has unsupported currency %q", inc.ID, inc.Currency)
		}
		if inc.DayOfMonth < 0 || inc.DayOfMonth > 28 {
			return fmt.Errorf("scenario: income %q dayOfMonth %d out of range [0,28]", inc.ID, inc.DayOfMonth)
		}
	}

	for i, exp := range s.Expenses {
		if exp.ID == "" {
			return fmt.Errorf("scenario: expenses[%d] missing id", i)
		}
		if exp.MonthlyAmount < 0 {
			return fmt.Errorf("scenario: expense %q has negative amount", exp.ID)
		}
		if !fxrate.Known(exp.Currency) {
			return fmt.Errorf("scenario: expense %q has unsupported currency %q", exp.ID, exp.Currency)
		}
	}

	for i, d := range s.Debts {
		if d.ID == "" {
			return fmt.Errorf("scenario: debts[%d] missing id", i)
		}
		if d.Principal < 0 || d.APR < 0 || d.MinPayment < 0 {
			return fmt.Errorf("scenario: debt %q has negative principal, apr, or minPayment", d.ID)
		}
		if !fxrate.Known(d.Currency) {
			return fmt.Errorf("scenario: debt %q has unsupported currency %q", d.ID, d.Currency)
		}
	}

	for i, a := range s.Assets {
		if a.ID == "" {
			return fmt.Errorf("scenario: assets[%d] missing id", i)
		}
		if !validClass(a.Class) {
			return fmt.Errorf("scenario: asset %q has unknown class %q", a.ID, a.Class)
		}
		if a.Value < 0 {
			return fmt.Errorf("scenario: asset %q has negative value", a.ID)
		}
		if !fxrate.Known(a.Currency) {
			return fmt.Errorf("scenario: asset %q has unsupported currency %q", a.ID, a.Currency)
		}
		if a.Volatility < 0 {
			return fmt.Errorf("scenario: asset %q has negative volatility", a.ID)
		}
		if a.SalePenalty < 0 || a.SalePenalty > 1 {
			return fmt.Errorf("scenario: asset %q salePenalty %g out of range [0,1]", a.ID, a.SalePenalty)
		}
		if a.LiquidityDelayDays < 0 {
			return fmt.Errorf("scenario: asset %q has negative liquidityDelayDays", a.ID)
		}
	}

	for i, b := range s.TaxBrackets {
		if b.Floor < 0 {
			return fmt.Errorf("scenario: taxBrackets[%d] has negative floor", i)
		}
		if b.Ceiling <= b.Floor {
			return fmt.Errorf("scenario: taxBrackets[%d] ceiling must exceed floor", i)
		}
		if b.Rate < 0 || b.Rate > 1 {
			return fmt.Errorf("scenario: taxBrackets[%d] rate %g out of range [0,1]", i, b.Rate)
		}
	}

	for i, sh := range s.Shocks {
		if sh.ID == "" {
			return fmt.Errorf("scenario: shocks[%d] missing id", i)
		}
		if sh.Day < 0 {
			return fmt.Errorf("scenario: shock %q has negative day", sh.ID)
		}
		if !fxrate.Known(sh.Currency) {
			return fmt.Errorf("scenario: shock %q has unsupported currency %q", sh.ID, sh.Currency)
		}
		if sh.Severity < 0 {
			return fmt.Errorf("scenario: shock %q has negative severity", sh.ID)
		}
	}

	return nil
}
