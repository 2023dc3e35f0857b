// Package fxrate provides the deterministic exchange-rate path and
// currency conversion used throughout the simulation. Rates are quoted
// as units of currency per USD; all conversion routes through USD.
package fxrate

import "math"

// Currency is one of the supported reporting/booking currencies.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	PKR Currency = "PKR"
)

// Known reports whether c is a supported currency.
func Known(c Currency) bool {
	switch c {
	case USD, EUR, PKR:
		return true
	}
	return false
}

// Rates holds exchange rates relative to USD (units per USD).
type Rates struct {
	EUR float64 `json:"EUR" yaml:"EUR"`
	PKR float64 `json:"PKR" yaml:"PKR"`
}

// ForDay computes the deterministic rates for a given day index.
//
// Each currency oscillates sinusoidally around its base rate with a
// distinct frequency (so the two paths do not correlate) and an
// amplitude scaled by the volatility parameter. No randomness: the same
// day always yields the same rates.
func ForDay(day int, base Rates, volatility float64) Rates {
	d := float64(day)
	eurFactor := 1 + volatility*math.Sin(d*0.017)*0.1
	pkrFactor := 1 + volatility*math.Sin(d*0.023+1.5)*0.1

	return Rates{
		EUR: base.EUR * eurFactor,
		PKR: base.PKR * pkrFactor,
	}
}

// ToUSD converts amount from the given currency into USD.
func ToUSD(amount float64, from Currency, r Rates) float64 {
	switch from {
	case EUR:
		return amount / r.EUR
	case PKR:
		return amount / r.PKR
	}
	return amount
}

// FromUSD converts a USD amount into the given currency.
func FromUSD(amount float64, to Currency, r Rates) float64 {
	switch to {
	case EUR:
		return amount * r.EUR
	case PKR:
		return amount * r.PKR
	}
	return amount
}

// Convert converts amount between any two supported currencies,
// pivoting through USD.
func Convert(amount float64, from, to Currency, r Rates) float64 {
	if from == to {
		return amount
	}
	return FromUSD(ToUSD(amount, from, r), to, r)
}
