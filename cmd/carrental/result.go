package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/timpalpant/go-mdp"
	"github.com/timpalpant/go-mdp/carrental"
)

// SysInfo records the machine a result was computed on.
type SysInfo struct {
	OS  string `json:"os"`
	CPU string `json:"cpu"`
	RAM string `json:"ram"`
}

// Result is the JSON document written by -output.
type Result struct {
	Params     carrental.Params `json:"params"`
	Iterations int              `json:"iterations"`
	RuntimeSec float64          `json:"runtime_sec"`
	System     SysInfo          `json:"system"`

	// Policy and Value are (MaxCars+1)x(MaxCars+1) grids indexed
	// [carsAtA][carsAtB].
	Policy [][]int     `json:"policy"`
	Value  [][]float64 `json:"value"`
}

func writeResult(path string, model *carrental.Model, sol *mdp.Solution, elapsed time.Duration) error {
	result := Result{
		Params:     model.Params(),
		Iterations: sol.Iters,
		RuntimeSec: elapsed.Seconds(),
		System:     sysInfo(),
		Policy:     model.PolicyGrid(sol.Policy),
		Value:      model.ValueGrid(sol.Value),
	}

	buf, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}

	return errors.Wrapf(os.WriteFile(path, buf, 0644), "writing %v", path)
}

func sysInfo() SysInfo {
	var info SysInfo
	if hostStat, err := host.Info(); err == nil {
		info.OS = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}
	return info
}
