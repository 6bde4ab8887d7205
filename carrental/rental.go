// Package carrental implements the two-location rental problem as an
// mdp.Model: each day both locations receive Poisson-distributed rental
// requests and returns, and each night a policy may shuttle cars between
// them. Solving it with mdp.Solve yields the optimal overnight transfer
// policy.
package carrental

import (
	"fmt"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/poisson"
)

const (
	locA = 0
	locB = 1
)

var _ mdp.Model = &Model{}

// Model implements mdp.Model for a rental instance.
//
// A state encodes the cars available at each location at the start of a
// day, row-major: index = nA*(MaxCars+1) + nB. An action is the signed
// number of cars moved from A to B overnight.
//
// Feasibility rule: an action may not move more cars out of a location
// than it holds, and may not exceed MaxTransfer; such actions are not
// enumerated. Cars arriving at a location already at capacity are
// returned to the company pool (the destination count is clipped to
// MaxCars), but the transfer cost is still paid for every car moved.
//
// The four-fold marginalization over requests and returns factorizes
// into independent per-location terms, so the model precomputes, per
// location, the expected rental revenue and the end-of-day transition
// row for every possible post-transfer count. Requests and returns use
// Poisson tables truncated at MaxCars; the folded tail coincides with
// the demand and capacity clipping, so the truncation is exact.
type Model struct {
	params Params
	grid   int // MaxCars + 1

	// reward[loc][m] is the expected rental revenue of starting the day
	// with m cars available at loc.
	reward [2][]float64
	// trans[loc][m][n] is the probability of ending the day with n cars
	// at loc having started with m available.
	trans [2][][]float64
	// actions[a][b] enumerates the feasible transfers when location A
	// can spare a cars and location B can spare b (both capped at
	// MaxTransfer), ordered by magnitude, positive first.
	actions [][][]mdp.Action
}

// New builds a Model, precomputing its Poisson tables and per-location
// reward and transition rows. It fails with a ConfigurationError if the
// parameters are invalid.
func New(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		params: params,
		grid:   params.MaxCars + 1,
	}

	rates := [2]struct{ request, ret float64 }{
		{params.RequestRateA, params.ReturnRateA},
		{params.RequestRateB, params.ReturnRateB},
	}

	for loc, r := range rates {
		requests, err := poisson.Cached(r.request, params.MaxCars)
		if err != nil {
			return nil, err
		}

		returns, err := poisson.Cached(r.ret, params.MaxCars)
		if err != nil {
			return nil, err
		}

		m.reward[loc], m.trans[loc] = dayDynamics(requests, returns, params)
	}

	m.actions = enumerateActions(params.MaxTransfer)
	return m, nil
}

// dayDynamics marginalizes one location's day over its request and
// return distributions: for every post-transfer count m it accumulates
// the expected rental revenue and the distribution over end-of-day
// counts clip(m - satisfied + returned, 0, MaxCars).
func dayDynamics(requests, returns *poisson.Table, params Params) (reward []float64, trans [][]float64) {
	reward = make([]float64, params.MaxCars+1)
	trans = make([][]float64, params.MaxCars+1)

	for m := 0; m <= params.MaxCars; m++ {
		row := make([]float64, params.MaxCars+1)
		for k := 0; k <= requests.Cutoff(); k++ {
			pReq := requests.Prob(k)
			satisfied := min(m, k)
			reward[m] += pReq * params.RentalCredit * float64(satisfied)
			for j := 0; j <= returns.Cutoff(); j++ {
				end := m - satisfied + j
				if end > params.MaxCars {
					end = params.MaxCars
				}
				row[end] += pReq * returns.Prob(j)
			}
		}
		trans[m] = row
	}

	return reward, trans
}

func enumerateActions(maxTransfer int) [][][]mdp.Action {
	actions := make([][][]mdp.Action, maxTransfer+1)
	for a := 0; a <= maxTransfer; a++ {
		actions[a] = make([][]mdp.Action, maxTransfer+1)
		for b := 0; b <= maxTransfer; b++ {
			feasible := []mdp.Action{0}
			for step := 1; step <= maxTransfer; step++ {
				if step <= a {
					feasible = append(feasible, mdp.Action(step))
				}
				if step <= b {
					feasible = append(feasible, mdp.Action(-step))
				}
			}
			actions[a][b] = feasible
		}
	}
	return actions
}

// Params returns the instance parameters.
func (m *Model) Params() Params {
	return m.params
}

// GridSize returns MaxCars+1, the side length of the state grid.
func (m *Model) GridSize() int {
	return m.grid
}

// NumStates implements mdp.Model.
func (m *Model) NumStates() int {
	return m.grid * m.grid
}

// StateOf returns the state index for nA cars at location A and nB at
// location B.
func (m *Model) StateOf(nA, nB int) mdp.State {
	return mdp.State(nA*m.grid + nB)
}

// Cars returns the per-location car counts encoded by s.
func (m *Model) Cars(s mdp.State) (nA, nB int) {
	return int(s) / m.grid, int(s) % m.grid
}

// Actions implements mdp.Model. Transfers are enumerated by magnitude
// (0, +1, -1, +2, -2, ...), so policy improvement prefers the smallest
// transfer on ties, and A-to-B on equal-magnitude ties.
func (m *Model) Actions(s mdp.State) []mdp.Action {
	nA, nB := m.Cars(s)
	return m.actions[min(nA, m.params.MaxTransfer)][min(nB, m.params.MaxTransfer)]
}

// ExpectedReturn implements mdp.Model: the transfer cost of a, plus the
// expected rental revenue at both locations, plus the discounted
// expectation of v over the joint end-of-day state distribution.
func (m *Model) ExpectedReturn(s mdp.State, a mdp.Action, v mdp.ValueFunction) float64 {
	nA, nB := m.Cars(s)
	moved := int(a)
	if moved > nA || -moved > nB || moved > m.params.MaxTransfer || -moved > m.params.MaxTransfer {
		panic(fmt.Errorf("carrental: action %d is infeasible in state (%d, %d)", moved, nA, nB))
	}

	postA := min(nA-moved, m.params.MaxCars)
	postB := min(nB+moved, m.params.MaxCars)

	total := m.reward[locA][postA] + m.reward[locB][postB]
	total -= m.params.TransferCost * float64(m.chargeableMoves(moved))

	transA := m.trans[locA][postA]
	transB := m.trans[locB][postB]
	var future float64
	for endA, pA := range transA {
		if pA == 0 {
			continue
		}

		next := v[endA*m.grid : endA*m.grid+m.grid]
		var rowSum float64
		for endB, pB := range transB {
			rowSum += pB * next[endB]
		}
		future += pA * rowSum
	}

	return total + m.params.Discount*future
}

// chargeableMoves is the number of transferred cars that are paid for:
// all of them, except that up to FreeTransfers cars moving from A to B
// ride free.
func (m *Model) chargeableMoves(moved int) int {
	if moved > 0 {
		return max(moved-m.params.FreeTransfers, 0)
	}
	return -moved
}

// PolicyGrid lays the policy out as a (MaxCars+1)x(MaxCars+1) grid of
// signed transfers, indexed [nA][nB].
func (m *Model) PolicyGrid(policy mdp.Policy) [][]int {
	out := make([][]int, m.grid)
	for nA := range out {
		row := make([]int, m.grid)
		for nB := range row {
			row[nB] = int(policy[m.StateOf(nA, nB)])
		}
		out[nA] = row
	}
	return out
}

// ValueGrid lays the value function out as a (MaxCars+1)x(MaxCars+1)
// grid, indexed [nA][nB].
func (m *Model) ValueGrid(v mdp.ValueFunction) [][]float64 {
	out := make([][]float64, m.grid)
	for nA := range out {
		row := make([]float64, m.grid)
		for nB := range row {
			row[nB] = v[m.StateOf(nA, nB)]
		}
		out[nA] = row
	}
	return out
}
