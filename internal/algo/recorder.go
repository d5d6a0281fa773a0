package algo

// PlanOutcome classifies how a navigate call produced its direction.
type PlanOutcome string

const (
	PlanFresh    PlanOutcome = "fresh"    // New search reached the goal or horizon
	PlanCached   PlanOutcome = "cached"   // Next step taken from a live route
	PlanFallback PlanOutcome = "fallback" // Search emptied, best explored state used
	PlanStay     PlanOutcome = "stay"     // No progress possible this tick
)

// Recorder receives navigator and solver events. internal/metrics provides
// the Prometheus implementation.
type Recorder interface {
	PlanCompleted(outcome PlanOutcome, expansions int)
	CacheLookup(hit bool)
	CacheEvicted()
	ReservationsHeld(n int)
	MovesExecuted(issued, rejected int)
	AssignmentSolved(problem string, rows, cols, matched int)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) PlanCompleted(PlanOutcome, int)         {}
func (NopRecorder) CacheLookup(bool)                       {}
func (NopRecorder) CacheEvicted()                          {}
func (NopRecorder) ReservationsHeld(int)                   {}
func (NopRecorder) MovesExecuted(int, int)                 {}
func (NopRecorder) AssignmentSolved(string, int, int, int) {}
