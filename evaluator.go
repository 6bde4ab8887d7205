package mdp

import (
	"math"
	"sync"

	"github.com/golang/glog"

	"github.com/timpalpant/go-mdp/internal/f64"
)

// Evaluate performs iterative policy evaluation for the fixed policy,
// updating v in place until the largest per-state change in one full sweep
// falls below params.Theta. It returns the number of sweeps performed.
//
// With params.Jacobi unset, each sweep updates states in ascending order
// and reads values updated earlier in the same sweep (Gauss-Seidel). With
// params.Jacobi set, each sweep reads only the previous sweep's values,
// optionally computed in parallel by params.NumWorkers goroutines.
//
// If the residual is still above Theta after params.MaxEvalSweeps sweeps,
// v is left at its last sweep and a ConvergenceError is returned.
func Evaluate(m Model, policy Policy, v ValueFunction, params Params) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	var buf ValueFunction
	if params.Jacobi {
		buf = make(ValueFunction, len(v))
	}

	for sweep := 1; sweep <= params.MaxEvalSweeps; sweep++ {
		var residual float64
		if params.Jacobi {
			residual = jacobiSweep(m, policy, v, buf, params.NumWorkers)
			copy(v, buf)
		} else {
			residual = gaussSeidelSweep(m, policy, v)
		}

		glog.V(2).Infof("Evaluation sweep %d: residual %g", sweep, residual)
		if residual < params.Theta {
			return sweep, nil
		}

		if sweep == params.MaxEvalSweeps {
			return sweep, &ConvergenceError{
				Sweeps:   sweep,
				Residual: residual,
				Theta:    params.Theta,
			}
		}
	}

	return 0, nil // unreachable; MaxEvalSweeps >= 1
}

// gaussSeidelSweep updates every state in ascending order, in place, and
// returns the largest absolute change.
func gaussSeidelSweep(m Model, policy Policy, v ValueFunction) float64 {
	var residual float64
	for s := range v {
		old := v[s]
		v[s] = m.ExpectedReturn(State(s), policy[s], v)
		residual = math.Max(residual, math.Abs(v[s]-old))
	}
	return residual
}

// jacobiSweep computes the backed-up value of every state from the
// read-only snapshot src into dst, and returns the largest absolute
// change. With workers >= 2 the states are split into contiguous chunks
// computed concurrently; each worker writes disjoint entries of dst, so
// the result is identical to the sequential sweep.
func jacobiSweep(m Model, policy Policy, src, dst ValueFunction, workers int) float64 {
	if workers < 2 {
		backupRange(m, policy, src, dst, 0, len(src))
		return f64.MaxAbsDiff(src, dst)
	}

	if workers > len(src) {
		workers = len(src)
	}

	var wg sync.WaitGroup
	chunk := (len(src) + workers - 1) / workers
	for lo := 0; lo < len(src); lo += chunk {
		hi := lo + chunk
		if hi > len(src) {
			hi = len(src)
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			backupRange(m, policy, src, dst, lo, hi)
		}(lo, hi)
	}

	wg.Wait()
	return f64.MaxAbsDiff(src, dst)
}

func backupRange(m Model, policy Policy, src, dst ValueFunction, lo, hi int) {
	for s := lo; s < hi; s++ {
		dst[s] = m.ExpectedReturn(State(s), policy[s], src)
	}
}
