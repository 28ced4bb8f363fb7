package sim

import "errors"

// Error conditions surfaced by the engine. Detailed errors wrap one of these,
// so callers should match with errors.Is.
var (
	// ErrInvalidDelay is returned when a negative or non-finite delay is scheduled.
	ErrInvalidDelay = errors.New("invalid delay")
	// ErrInvalidScenarioConfig is returned when a ScenarioConfig fails validation.
	// No run is started for such a config.
	ErrInvalidScenarioConfig = errors.New("invalid scenario config")
	// ErrResourceMisuse is returned when a lane is released without being held,
	// or when lane bookkeeping is inconsistent at the end of a run.
	ErrResourceMisuse = errors.New("resource misuse")
)
