package mdp

// Params are the configuration options for the policy-iteration solver.
// The zero value is not valid; start from DefaultParams.
type Params struct {
	// Theta is the policy-evaluation convergence tolerance: a sweep ends
	// evaluation when the largest per-state value change falls below it.
	Theta float64
	// MaxEvalSweeps caps the number of sweeps a single policy evaluation
	// may take. Exceeding it is a ConvergenceError.
	MaxEvalSweeps int
	// MaxPolicyIters caps the number of outer evaluate/improve rounds.
	// Exceeding it is a ConvergenceError.
	MaxPolicyIters int
	// Jacobi selects two-buffer sweeps: every state update reads the
	// previous sweep's values. The default (false) is in-place
	// Gauss-Seidel in ascending state order, which converges in fewer
	// sweeps and is the reference semantics.
	Jacobi bool
	// NumWorkers is the number of goroutines used to parallelize Jacobi
	// sweeps across states. Values below 2, or any value when Jacobi is
	// false, select the sequential sweep. Parallel sweeps produce results
	// identical to sequential Jacobi sweeps.
	NumWorkers int
}

// DefaultParams returns the solver configuration used by the classic
// rental instance: tolerance 1e-4 with generous iteration caps.
func DefaultParams() Params {
	return Params{
		Theta:          1e-4,
		MaxEvalSweeps:  1000,
		MaxPolicyIters: 100,
	}
}

// Validate reports a ConfigurationError describing the first invalid
// parameter, or nil.
func (p Params) Validate() error {
	if p.Theta <= 0 {
		return &ConfigurationError{Param: "Theta", Reason: "must be > 0"}
	}
	if p.MaxEvalSweeps < 1 {
		return &ConfigurationError{Param: "MaxEvalSweeps", Reason: "must be >= 1"}
	}
	if p.MaxPolicyIters < 1 {
		return &ConfigurationError{Param: "MaxPolicyIters", Reason: "must be >= 1"}
	}
	if p.NumWorkers < 0 {
		return &ConfigurationError{Param: "NumWorkers", Reason: "must be >= 0"}
	}
	return nil
}
