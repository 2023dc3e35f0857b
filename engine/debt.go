package engine

import (
	"github.com/futurewallet/wallet/fxrate"
	"github.com/futurewallet/wallet/scenario"
)

// debtComponent accrues daily interest on every debt and attempts the
// configured minimum payment on the first day of each pseudo-month.
// A payment the balance cannot cover is skipped and counted as missed.
type debtComponent struct {
	interest      map[string]float64 // debt id -> accrued interest today
	payments      map[string]float64 // debt id -> payment in debt currency
	paymentInBase map[string]float64 // debt id -> payment in base currency
	missed        int
}

func newDebtComponent() *debtComponent {
	return &debtComponent{
		interest:      make(map[string]float64),
		payments:      make(map[string]float64),
		paymentInBase: make(map[string]float64),
	}
}

func (c *debtComponent) ID() string             { return "debt" }
func (c *debtComponent) Dependencies() []string { return []string{"income", "expense"} }

func (c *debtComponent) Prepare(day int, st *DayState, cfg *scenario.Scenario) {
	clear(c.interest)
	clear(c.payments)
	clear(c.paymentInBase)
	c.missed = 0

	for _, debt := range cfg.Debts {
		principal := st.Debts[debt.ID]
		if principal <= 0 {
			continue
		}

		interest := principal * debt.APR / 365
		c.interest[debt.ID] = interest

		if dayInMonth(day) != 1 {
			continue
		}

		payment := debt.MinPayment
		if max := principal + interest; payment > max {
			payment = max
		}
		paymentBase := fxrate.Convert(payment, debt.Currency, cfg.BaseCurrency, st.FXRates)
		if st.Balance >= paymentBase {
			c.payments[debt.ID] = payment
			c.paymentInBase[debt.ID] = paymentBase
		} else {
			c.missed++
		}
	}
}

func (c *debtComponent) Apply(_ int, st *DayState, cfg *scenario.Scenario) {
	for _, debt := range cfg.Debts {
		principal := st.Debts[debt.ID]
		if principal <= 0 {
			continue
		}

		principal += c.interest[debt.ID]

		if payment := c.payments[debt.ID]; payment > 0 {
			principal -= payment
			base := c.paymentInBase[debt.ID]
			st.Balance -= base
			st.TotalDebtPayments += base
		}

		if principal < 0 {
			principal = 0
		}
		st.Debts[debt.ID] = principal
	}

	st.MissedPayments += c.missed
}
