package vnmo

import (
	"fmt"
)

func ExampleAssemble() {
	picks := []ControlPoint{
		{Trace: 1, Time: 0, Velocity: 1500},
		{Trace: 1, Time: 100, Velocity: 1800},
		{Trace: 50, Time: 0, Velocity: 1600},
		{Trace: 50, Time: 100, Velocity: 2000},
	}

	grid, _ := BuildGrid(50, 100)
	field, stats, err := Assemble(picks, grid, Options{})
	if err != nil {
		fmt.Println(err)
		return
	}

	rows, cols := field.Dims()
	fmt.Println(rows, cols, stats.Cells, stats.Extrapolated)
	// Output:
	// 26 50 1300 0
}

func ExampleBuildGrid() {
	grid, _ := BuildGrid(5, 18)
	fmt.Println(grid.TraceAxis)
	fmt.Println(grid.TimeAxis)
	// Output:
	// [1 2 3 4 5]
	// [0 4 8 12 16]
}
