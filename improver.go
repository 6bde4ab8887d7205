package mdp

// Improve performs one greedy policy-improvement sweep: for every state it
// selects the feasible action maximizing the one-step expected return
// under v, writing the result into policy. Ties are broken by the model's
// action enumeration order (the first maximizing action wins), so the
// result is deterministic.
//
// It returns true iff the policy was already greedy with respect to v,
// i.e. no state's action changed.
func Improve(m Model, v ValueFunction, policy Policy) (stable bool) {
	stable = true
	for s := range policy {
		actions := m.Actions(State(s))
		best := actions[0]
		bestReturn := m.ExpectedReturn(State(s), best, v)
		for _, a := range actions[1:] {
			if r := m.ExpectedReturn(State(s), a, v); r > bestReturn {
				best, bestReturn = a, r
			}
		}

		if policy[s] != best {
			policy[s] = best
			stable = false
		}
	}

	return stable
}
