package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/carrental"
)

// renderHeatMaps writes an HTML page with two heat maps: the optimal
// transfer policy and the converged value function, both laid out with
// location B on the x axis and location A on the y axis.
func renderHeatMaps(path string, model *carrental.Model, sol *mdp.Solution) error {
	policyGrid := model.PolicyGrid(sol.Policy)
	valueGrid := model.ValueGrid(sol.Value)

	n := model.GridSize()
	policyData := make([]opts.HeatMapData, 0, n*n)
	valueData := make([]opts.HeatMapData, 0, n*n)
	minPolicy, maxPolicy := 0.0, 0.0
	minValue, maxValue := valueGrid[0][0], valueGrid[0][0]
	for nA := 0; nA < n; nA++ {
		for nB := 0; nB < n; nB++ {
			a := float64(policyGrid[nA][nB])
			v := valueGrid[nA][nB]
			policyData = append(policyData, opts.HeatMapData{Value: [3]interface{}{nB, nA, a}})
			valueData = append(valueData, opts.HeatMapData{Value: [3]interface{}{nB, nA, v}})
			minPolicy, maxPolicy = min(minPolicy, a), max(maxPolicy, a)
			minValue, maxValue = min(minValue, v), max(maxValue, v)
		}
	}

	page := components.NewPage()
	page.AddCharts(
		heatMap("Optimal transfers (A to B)", n, minPolicy, maxPolicy, policyData),
		heatMap("Value function", n, minValue, maxValue, valueData),
	)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %v", path)
	}
	defer f.Close()

	return errors.Wrap(page.Render(f), "rendering heat maps")
}

func heatMap(title string, n int, lo, hi float64, data []opts.HeatMapData) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "cars at B"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "cars at A"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
		}),
	)

	hm.SetXAxis(axisLabels(n)).AddSeries(title, data)
	return hm
}

func axisLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprint(i)
	}
	return labels
}
