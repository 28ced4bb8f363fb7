package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelVehicles captures one ExitRecord per completed vehicle.
	TraceLevelVehicles TraceLevel = "vehicles"
	// TraceLevelLanes captures vehicle records plus every lane occupancy change.
	TraceLevelLanes TraceLevel = "lanes"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelVehicles: true,
	TraceLevelLanes:    true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether any records are collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelVehicles || c.Level == TraceLevelLanes
}

// SimulationTrace collects records during one scenario run.
type SimulationTrace struct {
	Config   TraceConfig
	Scenario string
	Exits    []ExitRecord
	Lanes    []LaneRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(scenario string, config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Scenario: scenario,
		Exits:    make([]ExitRecord, 0),
		Lanes:    make([]LaneRecord, 0),
	}
}

// RecordExit appends a completed vehicle record. No-op unless tracing is enabled.
func (st *SimulationTrace) RecordExit(record ExitRecord) {
	if st == nil || !st.Config.Enabled() {
		return
	}
	st.Exits = append(st.Exits, record)
}

// RecordLane appends a lane occupancy change. Only kept at TraceLevelLanes.
func (st *SimulationTrace) RecordLane(record LaneRecord) {
	if st == nil || st.Config.Level != TraceLevelLanes {
		return
	}
	st.Lanes = append(st.Lanes, record)
}
