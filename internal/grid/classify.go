package grid

import (
	"github.com/montanaflynn/stats"
)

// Counts aggregates a classification result. Light+Dark always equals
// the number of cells classified.
type Counts struct {
	Light int `json:"light"`
	Dark  int `json:"dark"`
}

// Classify labels every cell dark if its mean intensity is below the
// threshold, light otherwise, and returns the aggregate counts.
func Classify(cells []Cell, threshold float64) Counts {
	var counts Counts
	for i := range cells {
		if cells[i].Mean < threshold {
			cells[i].Class = Dark
			counts.Dark++
		} else {
			cells[i].Class = Light
			counts.Light++
		}
	}
	return counts
}

// CellStats summarizes the spread of cell mean intensities. A small
// standard deviation means the board has poor light/dark contrast.
type CellStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Stats computes summary statistics over the cell means.
func Stats(cells []Cell) (CellStats, error) {
	means := make([]float64, len(cells))
	for i := range cells {
		means[i] = cells[i].Mean
	}

	var (
		s   CellStats
		err error
	)
	if s.Mean, err = stats.Mean(means); err != nil {
		return CellStats{}, err
	}
	if s.StdDev, err = stats.StandardDeviation(means); err != nil {
		return CellStats{}, err
	}
	if s.Min, err = stats.Min(means); err != nil {
		return CellStats{}, err
	}
	if s.Max, err = stats.Max(means); err != nil {
		return CellStats{}, err
	}
	return s, nil
}
