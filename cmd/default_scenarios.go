package cmd

// defaultTitle heads the report when the scenario file has no title.
const defaultTitle = "Highway Off-Ramp Simulation (30 Minutes, Kahathuduwa Exit, Seconds)"

// DefaultScenarioFile returns the built-in scenario table: five traffic
// conditions at the Kahathuduwa exit over 30 minutes.
// A fresh value is returned on each call.
func DefaultScenarioFile() *ScenarioFile {
	return &ScenarioFile{
		Title:    defaultTitle,
		Duration: 1800,
		Scenarios: []ScenarioSpec{
			{
				Name:             "Morning Peak",
				ArrivalIntervals: []float64{2, 3, 2.5, 3, 2.5},
				ExitDurations:    []float64{3.5, 3.6, 3.5, 3.6, 3.5},
				Lanes:            1,
			},
			{
				Name:             "Evening Peak",
				ArrivalIntervals: []float64{2.5, 3, 2.5, 3, 2.5},
				ExitDurations:    []float64{3.5, 3.7, 3.6, 3.5, 3.7},
				Lanes:            1,
			},
			{
				Name:             "Weekend Traffic",
				ArrivalIntervals: []float64{5, 6, 5.5, 6, 5.5},
				ExitDurations:    []float64{3.5, 3.6, 3.5, 3.6, 3.5},
				Lanes:            1,
			},
			{
				Name:             "Accident Lane Blocked",
				ArrivalIntervals: []float64{2, 3, 2.5, 3, 2.5},
				ExitDurations:    []float64{3.5, 3.6, 3.5, 3.6, 3.5},
				Lanes:            1,
			},
			{
				Name:             "New Ramp Design",
				ArrivalIntervals: []float64{2, 2.5, 2, 2.5, 2},
				ExitDurations:    []float64{3.5, 3.5, 3.5, 3.5, 3.5},
				Lanes:            2,
			},
		},
	}
}
