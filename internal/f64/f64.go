package f64

import "math"

// Sum is
//  var sum float64
//  for i := range x {
//      sum += x[i]
//  }
func Sum(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum
}

// MaxAbsDiff is
//  var max float64
//  for i := range x {
//      max = math.Max(max, math.Abs(x[i]-y[i]))
//  }
// x and y must have the same length.
func MaxAbsDiff(x, y []float64) float64 {
	var max float64
	for i := range x {
		if d := math.Abs(x[i] - y[i]); d > max {
			max = d
		}
	}
	return max
}
