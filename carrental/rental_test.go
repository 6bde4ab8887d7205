package carrental

import (
	"math"
	"testing"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/poisson"
)

func smallParams() Params {
	return Params{
		MaxCars:      4,
		MaxTransfer:  2,
		RequestRateA: 1.5,
		RequestRateB: 2,
		ReturnRateA:  1,
		ReturnRateB:  0.5,
		RentalCredit: 10,
		TransferCost: 2,
		Discount:     0.9,
	}
}

// The per-location factorization must agree with the direct four-fold
// marginalization over (requestsA, returnsA, requestsB, returnsB).
func TestExpectedReturn_MatchesDirectMarginalization(t *testing.T) {
	params := smallParams()
	model, err := New(params)
	if err != nil {
		t.Fatal(err)
	}

	v := make(mdp.ValueFunction, model.NumStates())
	for s := range v {
		v[s] = 0.37 * float64(s)
	}

	for s := mdp.State(0); s < mdp.State(model.NumStates()); s++ {
		for _, a := range model.Actions(s) {
			got := model.ExpectedReturn(s, a, v)
			want := directExpectedReturn(t, model, params, s, a, v)
			if math.Abs(got-want) > 1e-9 {
				nA, nB := model.Cars(s)
				t.Fatalf("state (%d,%d) action %d: factorized %v, direct %v",
					nA, nB, a, got, want)
			}
		}
	}
}

func directExpectedReturn(t *testing.T, model *Model, params Params, s mdp.State, a mdp.Action, v mdp.ValueFunction) float64 {
	t.Helper()
	tables := make([]*poisson.Table, 4)
	for i, lambda := range []float64{
		params.RequestRateA, params.ReturnRateA,
		params.RequestRateB, params.ReturnRateB,
	} {
		table, err := poisson.New(lambda, params.MaxCars)
		if err != nil {
			t.Fatal(err)
		}
		tables[i] = table
	}

	nA, nB := model.Cars(s)
	moved := int(a)
	postA := min(nA-moved, params.MaxCars)
	postB := min(nB+moved, params.MaxCars)

	chargeable := -moved
	if moved > 0 {
		chargeable = max(moved-params.FreeTransfers, 0)
	}

	total := -params.TransferCost * float64(chargeable)
	for reqA := 0; reqA <= params.MaxCars; reqA++ {
		satA := min(postA, reqA)
		for retA := 0; retA <= params.MaxCars; retA++ {
			endA := min(postA-satA+retA, params.MaxCars)
			pA := tables[0].Prob(reqA) * tables[1].Prob(retA)
			for reqB := 0; reqB <= params.MaxCars; reqB++ {
				satB := min(postB, reqB)
				for retB := 0; retB <= params.MaxCars; retB++ {
					endB := min(postB-satB+retB, params.MaxCars)
					p := pA * tables[2].Prob(reqB) * tables[3].Prob(retB)
					reward := params.RentalCredit * float64(satA+satB)
					total += p * (reward + params.Discount*v[model.StateOf(endA, endB)])
				}
			}
		}
	}

	return total
}

func TestActions_FeasibilityAndOrder(t *testing.T) {
	model, err := New(smallParams())
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		nA, nB int
		want   []mdp.Action
	}{
		{0, 0, []mdp.Action{0}},
		{1, 0, []mdp.Action{0, 1}},
		{0, 1, []mdp.Action{0, -1}},
		{1, 1, []mdp.Action{0, 1, -1}},
		{4, 4, []mdp.Action{0, 1, -1, 2, -2}},
		{4, 0, []mdp.Action{0, 1, 2}},
	}

	for _, tc := range cases {
		got := model.Actions(model.StateOf(tc.nA, tc.nB))
		if len(got) != len(tc.want) {
			t.Fatalf("Actions(%d,%d) = %v, want %v", tc.nA, tc.nB, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Actions(%d,%d) = %v, want %v", tc.nA, tc.nB, got, tc.want)
			}
		}
	}
}

func TestExpectedReturn_PanicsOnInfeasibleAction(t *testing.T) {
	model, err := New(smallParams())
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for infeasible action")
		}
	}()

	v := make(mdp.ValueFunction, model.NumStates())
	model.ExpectedReturn(model.StateOf(0, 0), 1, v)
}

func TestExpectedReturn_FreeTransfers(t *testing.T) {
	params := smallParams()
	charged, err := New(params)
	if err != nil {
		t.Fatal(err)
	}

	params.FreeTransfers = 1
	free, err := New(params)
	if err != nil {
		t.Fatal(err)
	}

	v := make(mdp.ValueFunction, charged.NumStates())
	s := charged.StateOf(3, 0)

	// One of the two A->B moves rides free.
	diff := free.ExpectedReturn(s, 2, v) - charged.ExpectedReturn(s, 2, v)
	if math.Abs(diff-params.TransferCost) > 1e-12 {
		t.Errorf("free-transfer saving = %v, want %v", diff, params.TransferCost)
	}

	// B->A moves are always charged.
	s = charged.StateOf(0, 3)
	diff = free.ExpectedReturn(s, -2, v) - charged.ExpectedReturn(s, -2, v)
	if diff != 0 {
		t.Errorf("B->A transfer saving = %v, want 0", diff)
	}
}

func TestParams_Validate(t *testing.T) {
	base := DefaultParams()
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative MaxCars", func(p *Params) { p.MaxCars = -1 }},
		{"negative MaxTransfer", func(p *Params) { p.MaxTransfer = -1 }},
		{"zero request rate", func(p *Params) { p.RequestRateA = 0 }},
		{"negative return rate", func(p *Params) { p.ReturnRateB = -2 }},
		{"discount zero", func(p *Params) { p.Discount = 0 }},
		{"discount one", func(p *Params) { p.Discount = 1 }},
		{"negative free transfers", func(p *Params) { p.FreeTransfers = -1 }},
	}

	for _, tc := range cases {
		params := base
		tc.mutate(&params)
		if _, err := New(params); err == nil {
			t.Errorf("%s: expected ConfigurationError", tc.name)
		} else if _, ok := err.(*mdp.ConfigurationError); !ok {
			t.Errorf("%s: got %T, want *mdp.ConfigurationError", tc.name, err)
		}
	}

	if err := base.Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestGrids_Layout(t *testing.T) {
	model, err := New(smallParams())
	if err != nil {
		t.Fatal(err)
	}

	v := make(mdp.ValueFunction, model.NumStates())
	policy := make(mdp.Policy, model.NumStates())
	for s := range v {
		v[s] = float64(s)
		policy[s] = mdp.Action(s % 3)
	}

	valueGrid := model.ValueGrid(v)
	policyGrid := model.PolicyGrid(policy)
	n := model.GridSize()
	if len(valueGrid) != n || len(policyGrid) != n {
		t.Fatalf("grid has %d rows, want %d", len(valueGrid), n)
	}

	for nA := 0; nA < n; nA++ {
		for nB := 0; nB < n; nB++ {
			s := model.StateOf(nA, nB)
			if valueGrid[nA][nB] != v[s] {
				t.Fatalf("ValueGrid[%d][%d] = %v, want %v", nA, nB, valueGrid[nA][nB], v[s])
			}
			if policyGrid[nA][nB] != int(policy[s]) {
				t.Fatalf("PolicyGrid[%d][%d] = %v, want %v", nA, nB, policyGrid[nA][nB], policy[s])
			}
		}
	}
}

func BenchmarkExpectedReturn(b *testing.B) {
	model, err := New(DefaultParams())
	if err != nil {
		b.Fatal(err)
	}

	v := make(mdp.ValueFunction, model.NumStates())
	s := model.StateOf(10, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		model.ExpectedReturn(s, 3, v)
	}
}
