package mdp_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/carrental"
)

var defaultInstance struct {
	once  sync.Once
	model *carrental.Model
	sol   *mdp.Solution
	err   error
}

// solveDefault solves the classic instance once and shares the solution
// across tests.
func solveDefault(t *testing.T) (*carrental.Model, *mdp.Solution) {
	t.Helper()
	defaultInstance.once.Do(func() {
		model, err := carrental.New(carrental.DefaultParams())
		if err != nil {
			defaultInstance.err = err
			return
		}

		sol, err := mdp.Solve(model, mdp.DefaultParams())
		if err != nil {
			defaultInstance.err = err
			return
		}

		defaultInstance.model = model
		defaultInstance.sol = sol
	})

	if defaultInstance.err != nil {
		t.Fatal(defaultInstance.err)
	}
	return defaultInstance.model, defaultInstance.sol
}

func TestRental_ConvergesQuickly(t *testing.T) {
	_, sol := solveDefault(t)
	if sol.Iters >= 10 {
		t.Errorf("policy iteration took %d rounds, want < 10", sol.Iters)
	}
}

func TestRental_SpotChecks(t *testing.T) {
	model, sol := solveDefault(t)
	params := model.Params()

	if a := sol.Policy[model.StateOf(0, 0)]; a != 0 {
		t.Errorf("policy(0,0) = %d, want 0", a)
	}

	// With A at capacity and B empty, shuttle as many cars as allowed
	// (or within one of it).
	if a := int(sol.Policy[model.StateOf(params.MaxCars, 0)]); a < params.MaxTransfer-1 {
		t.Errorf("policy(%d,0) = %d, want >= %d", params.MaxCars, a, params.MaxTransfer-1)
	}

	// A is empty: the policy cannot move cars A does not have.
	if a := sol.Policy[model.StateOf(0, params.MaxCars)]; a > 0 {
		t.Errorf("policy(0,%d) = %d, want <= 0", params.MaxCars, a)
	}
}

func TestRental_NeverMovesMissingCars(t *testing.T) {
	model, sol := solveDefault(t)
	n := model.GridSize()

	for i := 0; i < n; i++ {
		if a := sol.Policy[model.StateOf(0, i)]; a > 0 {
			t.Errorf("policy(0,%d) = %d moves cars out of empty location A", i, a)
		}
		if a := sol.Policy[model.StateOf(i, 0)]; a < 0 {
			t.Errorf("policy(%d,0) = %d moves cars out of empty location B", i, a)
		}
	}
}

// The optimal policy has a staircase structure: for a fixed count at B,
// the transfer is non-decreasing in the count at A.
func TestRental_MonotoneInA(t *testing.T) {
	model, sol := solveDefault(t)
	grid := model.PolicyGrid(sol.Policy)
	n := model.GridSize()

	for nB := 0; nB < n; nB++ {
		for nA := 1; nA < n; nA++ {
			if grid[nA][nB] < grid[nA-1][nB] {
				t.Errorf("policy(%d,%d) = %d < policy(%d,%d) = %d",
					nA, nB, grid[nA][nB], nA-1, nB, grid[nA-1][nB])
			}
		}
	}
}

func TestRental_ImproverIdempotentOnSolution(t *testing.T) {
	model, sol := solveDefault(t)

	policy := make(mdp.Policy, len(sol.Policy))
	copy(policy, sol.Policy)
	if stable := mdp.Improve(model, sol.Value, policy); !stable {
		t.Error("improvement on the converged solution reported instability")
	}
}

func TestRental_ParallelJacobiMatchesSerial(t *testing.T) {
	model, err := carrental.New(carrental.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	policy := mdp.NewPolicy(model)

	serialParams := mdp.DefaultParams()
	serialParams.Jacobi = true
	serial := mdp.NewValueFunction(model)
	serialSweeps, err := mdp.Evaluate(model, policy, serial, serialParams)
	if err != nil {
		t.Fatal(err)
	}

	parallelParams := serialParams
	parallelParams.NumWorkers = 8
	parallel := mdp.NewValueFunction(model)
	parallelSweeps, err := mdp.Evaluate(model, policy, parallel, parallelParams)
	if err != nil {
		t.Fatal(err)
	}

	if serialSweeps != parallelSweeps {
		t.Fatalf("serial took %d sweeps, parallel %d", serialSweeps, parallelSweeps)
	}
	for s := range serial {
		if serial[s] != parallel[s] {
			t.Fatalf("state %d: serial %v != parallel %v", s, serial[s], parallel[s])
		}
	}
}

func TestRental_SolutionRoundTrip(t *testing.T) {
	_, sol := solveDefault(t)

	var buf bytes.Buffer
	if err := sol.MarshalTo(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := mdp.LoadSolution(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Iters != sol.Iters {
		t.Errorf("Iters = %d, want %d", loaded.Iters, sol.Iters)
	}
	for s := range sol.Policy {
		if loaded.Policy[s] != sol.Policy[s] || loaded.Value[s] != sol.Value[s] {
			t.Fatalf("state %d: round trip mismatch", s)
		}
	}
}
