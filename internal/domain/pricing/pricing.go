// Package pricing computes booking totals and deposits in major currency units.
package pricing

import "math"

type DepositType string

const (
	DepositPercentage DepositType = "PERCENTAGE"
	DepositFixed      DepositType = "FIXED"
)

func (t DepositType) Valid() bool {
	return t == DepositPercentage || t == DepositFixed
}

// Policy is the part of studio settings that drives pricing.
type Policy struct {
	HourlyRate     float64
	RequireDeposit bool
	DepositType    DepositType
	DepositAmount  float64
}

type Quote struct {
	Total           float64 `json:"total"`
	Deposit         float64 `json:"deposit"`
	DepositRequired bool    `json:"deposit_required"`
}

// Total scales the hourly rate linearly by duration and adds service prices.
func Total(durationMinutes int, hourlyRate float64, servicePrices ...float64) float64 {
	total := float64(durationMinutes) / 60 * hourlyRate
	for _, p := range servicePrices {
		total += p
	}
	return RoundCents(total)
}

// Deposit returns the amount due upfront for total under p.
func Deposit(total float64, p Policy) float64 {
	if !p.RequireDeposit {
		return 0
	}
	if p.DepositType == DepositPercentage {
		return RoundCents(total * p.DepositAmount / 100)
	}
	return RoundCents(p.DepositAmount)
}

// Calculate prices a booking. catalog maps service ids to prices; selected
// ids missing from catalog contribute nothing.
func Calculate(p Policy, durationMinutes int, catalog map[int64]float64, selected []int64) Quote {
	prices := make([]float64, 0, len(selected))
	for _, id := range selected {
		if price, ok := catalog[id]; ok {
			prices = append(prices, price)
		}
	}
	total := Total(durationMinutes, p.HourlyRate, prices...)
	return Quote{
		Total:           total,
		Deposit:         Deposit(total, p),
		DepositRequired: p.RequireDeposit,
	}
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToMinorUnits converts a major-unit amount to cents for gateway calls.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
