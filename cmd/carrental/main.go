// Command carrental solves the two-location rental instance and prints
// the optimal overnight transfer policy as a grid. It can additionally
// render the policy and value grids as HTML heat maps, write the result
// as JSON, and checkpoint solutions in a LevelDB database.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/carrental"
	"github.com/timpalpant/go-mdp/ldbstore"
)

var (
	maxCars       = flag.Int("max_cars", 20, "Per-location car capacity")
	maxTransfer   = flag.Int("max_transfer", 5, "Maximum cars moved overnight")
	reqA          = flag.Float64("req_a", 3, "Poisson rate of rental requests at location A")
	reqB          = flag.Float64("req_b", 4, "Poisson rate of rental requests at location B")
	retA          = flag.Float64("ret_a", 3, "Poisson rate of returns at location A")
	retB          = flag.Float64("ret_b", 2, "Poisson rate of returns at location B")
	credit        = flag.Float64("credit", 10, "Revenue per satisfied rental")
	transferCost  = flag.Float64("transfer_cost", 2, "Cost per car moved overnight")
	freeTransfers = flag.Int("free_transfers", 0, "Cars per day moved A->B free of charge")
	gamma         = flag.Float64("gamma", 0.9, "Discount factor")
	theta         = flag.Float64("theta", 1e-4, "Policy-evaluation convergence tolerance")
	evalSweeps    = flag.Int("max_eval_sweeps", 1000, "Cap on evaluation sweeps per policy")
	policyIters   = flag.Int("max_policy_iters", 100, "Cap on evaluate/improve rounds")
	jacobi        = flag.Bool("jacobi", false, "Use two-buffer (Jacobi) evaluation sweeps")
	workers       = flag.Int("workers", 0, "Parallel workers for Jacobi sweeps")
	renderPath    = flag.String("render", "", "Write policy/value heat maps to this HTML file")
	outputPath    = flag.String("output", "", "Write the result as JSON to this file")
	checkpoint    = flag.String("checkpoint", "", "LevelDB directory to load/store the solution")
)

func main() {
	flag.Parse()

	model, err := carrental.New(carrental.Params{
		MaxCars:       *maxCars,
		MaxTransfer:   *maxTransfer,
		RequestRateA:  *reqA,
		RequestRateB:  *reqB,
		ReturnRateA:   *retA,
		ReturnRateB:   *retB,
		RentalCredit:  *credit,
		TransferCost:  *transferCost,
		FreeTransfers: *freeTransfers,
		Discount:      *gamma,
	})
	if err != nil {
		glog.Exit(err)
	}

	solver, err := mdp.NewSolver(model, mdp.Params{
		Theta:          *theta,
		MaxEvalSweeps:  *evalSweeps,
		MaxPolicyIters: *policyIters,
		Jacobi:         *jacobi,
		NumWorkers:     *workers,
	})
	if err != nil {
		glog.Exit(err)
	}

	var store *ldbstore.Store
	if *checkpoint != "" {
		store, err = ldbstore.Open(*checkpoint)
		if err != nil {
			glog.Exit(err)
		}
		defer store.Close()
		warmStart(solver, store, model.NumStates())
	}

	start := time.Now()
	sol, err := solver.Run()
	if err != nil {
		glog.Exit(err)
	}
	elapsed := time.Since(start)
	glog.Infof("Policy stable after %d iterations in %v", sol.Iters, elapsed)

	if store != nil {
		if err := store.Put(sol); err != nil {
			glog.Exit(err)
		}
	}

	printPolicy(os.Stdout, model, sol.Policy)
	fmt.Printf("\nV(0,0) = %.2f, V(%d,%d) = %.2f\n",
		sol.Value[model.StateOf(0, 0)], *maxCars, *maxCars,
		sol.Value[model.StateOf(*maxCars, *maxCars)])

	if *renderPath != "" {
		if err := renderHeatMaps(*renderPath, model, sol); err != nil {
			glog.Exit(err)
		}
		glog.Infof("Wrote heat maps to %v", *renderPath)
	}

	if *outputPath != "" {
		if err := writeResult(*outputPath, model, sol, elapsed); err != nil {
			glog.Exit(err)
		}
		glog.Infof("Wrote result to %v", *outputPath)
	}
}

// warmStart seeds the solver from a previously checkpointed solution, if
// one exists and matches the state-space size.
func warmStart(solver *mdp.Solver, store *ldbstore.Store, nStates int) {
	sol, err := store.Get()
	if err != nil {
		glog.V(1).Infof("No usable checkpoint: %v", err)
		return
	}

	if len(sol.Value) != nStates {
		glog.Warningf("Checkpoint has %d states, want %d; starting fresh",
			len(sol.Value), nStates)
		return
	}

	solver.SetPolicy(sol.Policy)
	solver.SetValue(sol.Value)
	glog.Infof("Warm start from checkpoint (%d prior iterations)", sol.Iters)
}
