package main

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/carrental"
)

// printPolicy writes the policy as a grid: rows are cars at location A
// (top row is full capacity), columns are cars at location B. Positive
// transfers (A to B) are green, negative red.
func printPolicy(w io.Writer, model *carrental.Model, policy mdp.Policy) {
	n := model.GridSize()
	fmt.Fprintf(w, "%4s", "A\\B")
	for nB := 0; nB < n; nB++ {
		fmt.Fprintf(w, "%4d", nB)
	}
	fmt.Fprintln(w)

	for nA := n - 1; nA >= 0; nA-- {
		fmt.Fprintf(w, "%4d", nA)
		for nB := 0; nB < n; nB++ {
			a := int(policy[model.StateOf(nA, nB)])
			cell := fmt.Sprintf("%4d", a)
			switch {
			case a > 0:
				fmt.Fprint(w, aurora.Green(cell))
			case a < 0:
				fmt.Fprint(w, aurora.Red(cell))
			default:
				fmt.Fprint(w, aurora.Gray(10, cell))
			}
		}
		fmt.Fprintln(w)
	}
}
