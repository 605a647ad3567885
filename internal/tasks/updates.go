package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a batch run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data, a [PairResult] once a pair settles
}

// Operation phase enumeration
type Phase int

const (
	Queue Phase = iota
	Lookup
	Compare
	Done
)

func (p Phase) String() string {
	switch p {
	case Queue:
		return "queue"
	case Lookup:
		return "lookup"
	case Compare:
		return "compare"
	case Done:
		return "done"
	default:
		return ""
	}
}

func queuedUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Queue,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Comparing %d pairs with %d workers...", total, workers),
	}
}

func lookupUpdate(step, total int, p Pair) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Lookup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up %s vs %s...", step, total, p.First, p.Second),
	}
}

func comparedUpdate(step, total int, res PairResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s vs %s: %s", step, total, res.Pair.First, res.Pair.Second, res.Matchup.Outcome()),
		Data:    res,
	}
}

func failedUpdate(step, total int, res PairResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s vs %s: %v", step, total, res.Pair.First, res.Pair.Second, res.Err),
		Data:    res,
	}
}

func doneUpdate(result *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Finished: %d compared, %d failed", result.SuccessCount, result.FailedCount),
	}
}
