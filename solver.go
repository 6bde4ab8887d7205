package mdp

import (
	"github.com/golang/glog"
)

// Solver runs policy iteration over a Model: repeated policy evaluation of
// the current policy followed by greedy improvement, until the policy is
// stable. Solver is not safe for concurrent use.
type Solver struct {
	model  Model
	params Params

	policy Policy
	v      ValueFunction
	iter   int
}

// NewSolver creates a Solver for the given model, starting from the
// model's initial policy and a zero value function.
func NewSolver(model Model, params Params) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Solver{
		model:  model,
		params: params,
		policy: NewPolicy(model),
		v:      NewValueFunction(model),
	}, nil
}

// Iter returns the number of completed evaluate/improve rounds.
func (s *Solver) Iter() int {
	return s.iter
}

// Policy returns the solver's current policy. The caller must not modify
// it while Run is in progress.
func (s *Solver) Policy() Policy {
	return s.policy
}

// Value returns the solver's current value function.
func (s *Solver) Value() ValueFunction {
	return s.v
}

// SetPolicy replaces the solver's starting policy, e.g. one loaded from a
// checkpoint store. Every action must be feasible for its state.
func (s *Solver) SetPolicy(policy Policy) {
	copy(s.policy, policy)
}

// SetValue replaces the solver's starting value function, e.g. one loaded
// from a checkpoint store.
func (s *Solver) SetValue(v ValueFunction) {
	copy(s.v, v)
}

// Run iterates until the policy is stable and returns the optimal policy
// and its value function. It fails with a ConvergenceError if evaluation
// exceeds its sweep cap or the policy does not stabilize within
// params.MaxPolicyIters rounds.
func (s *Solver) Run() (*Solution, error) {
	for s.iter < s.params.MaxPolicyIters {
		s.iter++

		sweeps, err := Evaluate(s.model, s.policy, s.v, s.params)
		if err != nil {
			return nil, err
		}

		stable := Improve(s.model, s.v, s.policy)
		glog.V(1).Infof("Policy iteration %d: %d evaluation sweeps, stable=%v",
			s.iter, sweeps, stable)

		if stable {
			return &Solution{
				Policy: s.policy,
				Value:  s.v,
				Iters:  s.iter,
			}, nil
		}
	}

	return nil, &ConvergenceError{Sweeps: s.iter, Theta: s.params.Theta}
}

// Solve is a convenience wrapper that builds a Solver and runs it to
// completion.
func Solve(model Model, params Params) (*Solution, error) {
	solver, err := NewSolver(model, params)
	if err != nil {
		return nil, err
	}

	return solver.Run()
}
