package reconcile

import "time"

// CycleReport is the immutable summary of one reconciliation cycle. It is
// built from the per-cycle context as the cycle runs and returned only when
// the cycle was not aborted; a fatal error never fabricates a report.
type CycleReport struct {
	Timestamp time.Time `json:"timestamp"`
	// Identified is the size of this cycle's delta set.
	Identified int `json:"identified"`
	// Applied is how many identities were successfully moved to the next
	// phase this cycle.
	Applied int `json:"applied"`
	// PreviouslyProcessed is the tracked set size before verification ran.
	PreviouslyProcessed int `json:"previouslyProcessed"`
	// ErrorCount is the number of error log entries this cycle produced.
	ErrorCount int `json:"errorCount"`
	// Simulation marks reports produced against fixture collaborators.
	Simulation bool `json:"simulation"`
}
