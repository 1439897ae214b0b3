package refine

import (
	"sort"
	"time"
)

// Candidate is one of the fixed set of in-progress answers being iteratively
// refined and graded. Candidates are created at seed time and mutated in place
// each round; the population never changes size during a run.
type Candidate struct {
	Text     string
	Feedback string
	// Grade is nil before the first grading pass, and nil again for a round
	// whose grading response could not be parsed.
	Grade *int

	GenerationTime time.Duration
	FeedbackTime   time.Duration
	GradingTime    time.Duration
}

// Graded reports whether the candidate holds a grade from the last pass.
func (c *Candidate) Graded() bool {
	return c.Grade != nil
}

// sortByGrade orders candidates by grade descending. Ungraded candidates sink
// below all graded ones, and ties keep their existing order.
func sortByGrade(candidates []*Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		switch {
		case ci.Grade == nil:
			return false
		case cj.Grade == nil:
			return true
		default:
			return *ci.Grade > *cj.Grade
		}
	})
}
