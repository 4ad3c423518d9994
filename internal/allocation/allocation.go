// Package allocation implements the winner-selection algorithm that turns
// vote tallies into a budget-respecting winner set.
//
// The algorithm is deliberately NOT a knapsack optimizer. Public legitimacy
// of participatory budgeting depends on rank order: a proposal with more
// votes must never lose its slot to a lower-voted one just because skipping
// it would pack the budget tighter. The engine therefore scans candidates in
// rank order and skips what doesn't fit, continuing down the list.
package allocation

import (
	"sort"
	"time"
)

// Candidate is a votable proposal as seen by the engine: an identity, a
// tally, and the cost it would charge against the budget (in cents).
type Candidate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	VoteCount int64     `json:"vote_count"`
	Cost      int64     `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is the outcome of one allocation run.
type Result struct {
	Selected        []Candidate `json:"selected"`
	TotalCost       int64       `json:"total_cost"`
	RemainingBudget int64       `json:"remaining_budget"`
	UtilizationRate float64     `json:"utilization_rate"`
}

// SelectedIDs returns the IDs of the winning candidates in selection order.
func (r *Result) SelectedIDs() []string {
	ids := make([]string, len(r.Selected))
	for i, c := range r.Selected {
		ids[i] = c.ID
	}
	return ids
}

// Allocate selects winners from candidates under the given budget.
//
// Candidates are ordered by vote count descending; ties go to the cheaper
// proposal, remaining ties to the earliest submission. The ordered list is
// scanned once: a candidate whose cost fits the remaining budget is
// included, one that doesn't is skipped and the scan continues, since a
// later, cheaper candidate may still be affordable. A cost exactly equal to
// the remaining budget fits.
//
// The function is pure and deterministic: the same candidates and budget
// always produce the same result, regardless of input order.
func Allocate(candidates []Candidate, budget int64) *Result {
	if budget <= 0 {
		return &Result{Selected: []Candidate{}, RemainingBudget: budget}
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].VoteCount != ordered[j].VoteCount {
			return ordered[i].VoteCount > ordered[j].VoteCount
		}
		if ordered[i].Cost != ordered[j].Cost {
			return ordered[i].Cost < ordered[j].Cost
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	selected := []Candidate{}
	remaining := budget
	for _, c := range ordered {
		if c.Cost <= remaining {
			selected = append(selected, c)
			remaining -= c.Cost
		}
	}

	totalCost := budget - remaining
	return &Result{
		Selected:        selected,
		TotalCost:       totalCost,
		RemainingBudget: remaining,
		UtilizationRate: float64(totalCost) / float64(budget) * 100,
	}
}
