package carrental

import (
	"github.com/timpalpant/go-mdp"
)

// Params describe a two-location rental instance. The zero value is not
// valid; start from DefaultParams.
type Params struct {
	// MaxCars is the per-location capacity. Both locations hold between
	// 0 and MaxCars cars at the start of a day.
	MaxCars int
	// MaxTransfer is the largest number of cars that may be moved
	// overnight in either direction.
	MaxTransfer int
	// RequestRateA and RequestRateB are the Poisson rates of daily rental
	// requests at each location.
	RequestRateA float64
	RequestRateB float64
	// ReturnRateA and ReturnRateB are the Poisson rates of daily returns
	// at each location. Cars returned on day d rent out from day d+1.
	ReturnRateA float64
	ReturnRateB float64
	// RentalCredit is the revenue per satisfied rental request.
	RentalCredit float64
	// TransferCost is the cost per car moved overnight.
	TransferCost float64
	// FreeTransfers is the number of cars per day that move from location
	// A to location B free of charge (an employee shuttles them home).
	// Transfers from B to A are always charged.
	FreeTransfers int
	// Discount is the discount factor gamma, in (0, 1).
	Discount float64
}

// DefaultParams returns the classic instance: capacity 20, transfer
// limit 5, request rates 3 and 4, return rates 3 and 2, $10 per rental,
// $2 per transfer, gamma 0.9.
func DefaultParams() Params {
	return Params{
		MaxCars:      20,
		MaxTransfer:  5,
		RequestRateA: 3,
		RequestRateB: 4,
		ReturnRateA:  3,
		ReturnRateB:  2,
		RentalCredit: 10,
		TransferCost: 2,
		Discount:     0.9,
	}
}

// Validate reports a ConfigurationError describing the first invalid
// parameter, or nil.
func (p Params) Validate() error {
	if p.MaxCars < 0 {
		return &mdp.ConfigurationError{Param: "MaxCars", Reason: "must be >= 0"}
	}
	if p.MaxTransfer < 0 {
		return &mdp.ConfigurationError{Param: "MaxTransfer", Reason: "must be >= 0"}
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"RequestRateA", p.RequestRateA},
		{"RequestRateB", p.RequestRateB},
		{"ReturnRateA", p.ReturnRateA},
		{"ReturnRateB", p.ReturnRateB},
	} {
		if rate.value <= 0 {
			return &mdp.ConfigurationError{Param: rate.name, Reason: "must be > 0"}
		}
	}
	if p.Discount <= 0 || p.Discount >= 1 {
		return &mdp.ConfigurationError{Param: "Discount", Reason: "must be in (0, 1)"}
	}
	if p.FreeTransfers < 0 {
		return &mdp.ConfigurationError{Param: "FreeTransfers", Reason: "must be >= 0"}
	}
	return nil
}
