package session

import "fmt"

// Result is the score of a finished round.
type Result struct {
	Correct int
	Total   int
	Reason  Reason
}

// Summary returns the overall score line, e.g. "Result: 2 of 3".
func (r Result) Summary() string {
	return fmt.Sprintf("Result: %d of %d", r.Correct, r.Total)
}

// Accuracy returns Correct/Total, or 0 for an empty round.
func (r Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}
