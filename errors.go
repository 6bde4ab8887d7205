package mdp

import "fmt"

// ConfigurationError indicates an invalid solver or model parameter.
// It is returned before any computation begins.
type ConfigurationError struct {
	// Param is the name of the offending parameter.
	Param string
	// Reason describes the constraint that was violated.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mdp: invalid configuration: %s %s", e.Param, e.Reason)
}

// ConvergenceError indicates that policy evaluation exhausted its sweep
// cap, or policy iteration its outer iteration cap, without converging.
// The partially converged results are discarded: policy improvement on an
// inaccurate value function has no correctness guarantee.
type ConvergenceError struct {
	// Sweeps is the number of sweeps (or outer iterations) performed.
	Sweeps int
	// Residual is the last observed max per-state value change.
	// It is 0 for outer-iteration cap errors.
	Residual float64
	// Theta is the tolerance that was not reached.
	Theta float64
}

func (e *ConvergenceError) Error() string {
	if e.Residual > 0 {
		return fmt.Sprintf("mdp: policy evaluation did not converge after %d sweeps: residual %g > theta %g",
			e.Sweeps, e.Residual, e.Theta)
	}
	return fmt.Sprintf("mdp: policy not stable after %d improvement rounds", e.Sweeps)
}
