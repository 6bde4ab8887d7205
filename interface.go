// Package mdp solves finite Markov decision processes exactly, by tabular
// policy iteration: iterative policy evaluation alternating with greedy
// policy improvement until the policy is stable.
//
// The package is generic over the problem: anything implementing Model can
// be solved. See the carrental subpackage for a complete example problem.
package mdp

// State is an index into a Model's dense state space,
// in the range [0, Model.NumStates()).
type State int

// Action is a problem-specific action encoding. For problems with signed
// actions (such as net transfers between two locations) the value is the
// signed quantity itself.
type Action int

// ValueFunction holds the estimated expected discounted return for every
// state, indexed by State.
type ValueFunction []float64

// Policy is a deterministic mapping from State to Action, indexed by State.
// A Policy produced by this package always holds a feasible action for
// every state.
type Policy []Action

// Model is the interface for a finite MDP with known dynamics.
//
// Implementations must be deterministic: NumStates, Actions and
// ExpectedReturn may be called concurrently and must always return the
// same results for the same inputs.
type Model interface {
	// NumStates returns the size of the dense state space.
	NumStates() int

	// Actions returns the feasible actions in the given state, in a fixed
	// deterministic order. The order is the tie-breaking rule for policy
	// improvement: of two actions with equal expected return, the one
	// enumerated first is preferred. The returned slice must not be
	// modified by the caller.
	Actions(s State) []Action

	// ExpectedReturn computes the one-step expected discounted return of
	// taking action a in state s, under the value estimates v: the
	// expected immediate reward plus the discounted expectation of
	// v(next state) over the model's transition probabilities.
	//
	// a must be one of Actions(s); implementations panic otherwise.
	ExpectedReturn(s State, a Action, v ValueFunction) float64
}

// NewValueFunction returns a zero-initialized value function for m.
func NewValueFunction(m Model) ValueFunction {
	return make(ValueFunction, m.NumStates())
}

// NewPolicy returns the initial policy for m: for every state, the first
// action in the model's enumeration order (the zero transfer, for models
// that follow the smallest-magnitude-first convention).
func NewPolicy(m Model) Policy {
	policy := make(Policy, m.NumStates())
	for s := range policy {
		policy[s] = m.Actions(State(s))[0]
	}
	return policy
}
