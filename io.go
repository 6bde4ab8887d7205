package mdp

import (
	"encoding/gob"
	"io"
)

// Solution is the result of a completed policy iteration run: the stable
// policy, its converged value function, and the number of outer iterations
// it took to reach them.
type Solution struct {
	Policy Policy
	Value  ValueFunction
	Iters  int
}

// MarshalTo serializes the solution to w.
func (s *Solution) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(int64(s.Iters)); err != nil {
		return err
	}

	if err := enc.Encode(s.Policy); err != nil {
		return err
	}

	return enc.Encode(s.Value)
}

// LoadSolution deserializes a solution previously written with MarshalTo.
func LoadSolution(r io.Reader) (*Solution, error) {
	dec := gob.NewDecoder(r)
	var iters int64
	if err := dec.Decode(&iters); err != nil {
		return nil, err
	}

	var policy Policy
	if err := dec.Decode(&policy); err != nil {
		return nil, err
	}

	var v ValueFunction
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return &Solution{Policy: policy, Value: v, Iters: int(iters)}, nil
}
