// Package poisson precomputes truncated Poisson probability tables.
//
// A Table holds the probability mass function of a Poisson distribution
// for counts 0..cutoff, with the entire tail P(X >= cutoff) folded into
// the mass at cutoff, so every table sums to exactly 1. Tables are
// immutable once built and safe for concurrent use.
package poisson

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-mdp/internal/f64"
)

// Table is a truncated Poisson probability mass function.
type Table struct {
	lambda float64
	pmf    []float64
}

// New builds the truncated table for rate lambda. The table has
// cutoff+1 entries; the entry at cutoff is P(X >= cutoff), so the
// probabilities sum to exactly 1 regardless of how much mass the
// truncation folds. It fails if lambda is not positive or cutoff is
// negative.
func New(lambda float64, cutoff int) (*Table, error) {
	if lambda <= 0 {
		return nil, errors.Errorf("poisson: rate must be positive, got %v", lambda)
	}
	if cutoff < 0 {
		return nil, errors.Errorf("poisson: cutoff must be non-negative, got %d", cutoff)
	}

	dist := distuv.Poisson{Lambda: lambda}
	pmf := make([]float64, cutoff+1)
	for k := 0; k < cutoff; k++ {
		pmf[k] = dist.Prob(float64(k))
	}
	pmf[cutoff] = 1 - f64.Sum(pmf[:cutoff])

	return &Table{lambda: lambda, pmf: pmf}, nil
}

// Lambda returns the rate the table was built for.
func (t *Table) Lambda() float64 {
	return t.lambda
}

// Cutoff returns the count at which the table is truncated.
func (t *Table) Cutoff() int {
	return len(t.pmf) - 1
}

// Prob returns the probability mass at count k. For k equal to the
// cutoff this includes the folded tail P(X >= cutoff).
func (t *Table) Prob(k int) float64 {
	return t.pmf[k]
}

type cacheKey struct {
	lambda float64
	cutoff int
}

var (
	cacheMu sync.Mutex
	cache   = make(map[cacheKey]*Table)
)

// Cached returns the table for (lambda, cutoff), building and memoizing
// it on first use. Models that share rates share tables.
func Cached(lambda float64, cutoff int) (*Table, error) {
	key := cacheKey{lambda, cutoff}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if t, ok := cache[key]; ok {
		return t, nil
	}

	t, err := New(lambda, cutoff)
	if err != nil {
		return nil, err
	}

	cache[key] = t
	return t, nil
}
