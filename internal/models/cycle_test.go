package models

import (
	"testing"
	"time"
)

// testCycle returns an active cycle with submission 10:00-12:00 and voting
// 14:00-16:00 on the same day.
func testCycle() *BudgetCycle {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return &BudgetCycle{
		Title:             "Test Round",
		TotalBudgetAmount: 100_000_000,
		MaxVotesPerUser:   3,
		SubmissionStartAt: day.Add(10 * time.Hour),
		SubmissionEndAt:   day.Add(12 * time.Hour),
		VotingStartAt:     day.Add(14 * time.Hour),
		VotingEndAt:       day.Add(16 * time.Hour),
		IsActive:          true,
	}
}

func TestBudgetCycle_Phase(t *testing.T) {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want CyclePhase
	}{
		{"before_submission", day.Add(9 * time.Hour), PhaseDraft},
		{"submission_start_inclusive", day.Add(10 * time.Hour), PhaseSubmission},
		{"mid_submission", day.Add(11 * time.Hour), PhaseSubmission},
		{"submission_end_inclusive", day.Add(12 * time.Hour), PhaseSubmission},
		{"vetting_window", day.Add(13 * time.Hour), PhaseVetting},
		{"voting_start_inclusive", day.Add(14 * time.Hour), PhaseVoting},
		{"mid_voting", day.Add(15 * time.Hour), PhaseVoting},
		{"voting_end_inclusive", day.Add(16 * time.Hour), PhaseVoting},
		{"after_voting", day.Add(17 * time.Hour), PhaseClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCycle()
			if got := c.Phase(tt.now); got != tt.want {
				t.Errorf("Phase(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	t.Run("inactive_cycle_is_draft_mid_voting", func(t *testing.T) {
		c := testCycle()
		c.IsActive = false
		if got := c.Phase(day.Add(15 * time.Hour)); got != PhaseDraft {
			t.Errorf("expected draft for inactive cycle, got %v", got)
		}
	})

	t.Run("finalized_wins_over_everything", func(t *testing.T) {
		c := testCycle()
		finalized := day.Add(18 * time.Hour)
		c.FinalizedAt = &finalized
		c.IsActive = false
		if got := c.Phase(day.Add(11 * time.Hour)); got != PhaseFinalized {
			t.Errorf("expected finalized, got %v", got)
		}
	})
}

func TestProposalStatus_CanTransitionTo(t *testing.T) {
	allowed := map[ProposalStatus][]ProposalStatus{
		ProposalStatusSubmitted:   {ProposalStatusUnderReview, ProposalStatusApprovedForVoting, ProposalStatusRejected},
		ProposalStatusUnderReview: {ProposalStatusApprovedForVoting, ProposalStatusRejected},
		ProposalStatusSelected:    {ProposalStatusInProgress},
		ProposalStatusInProgress:  {ProposalStatusCompleted},
	}
	all := []ProposalStatus{
		ProposalStatusSubmitted, ProposalStatusUnderReview, ProposalStatusApprovedForVoting,
		ProposalStatusRejected, ProposalStatusSelected, ProposalStatusInProgress, ProposalStatusCompleted,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}

	// Selection must be unreachable through vetting; only finalization sets it.
	if ProposalStatusApprovedForVoting.CanTransitionTo(ProposalStatusSelected) {
		t.Error("approved_for_voting must not transition to selected outside finalization")
	}
}

func TestBudgetProposal_AllocationCost(t *testing.T) {
	p := &BudgetProposal{EstimatedCost: 400_000}
	if got := p.AllocationCost(); got != 400_000 {
		t.Errorf("expected fallback to estimated cost, got %d", got)
	}

	technical := int64(350_000)
	p.TechnicalCost = &technical
	if got := p.AllocationCost(); got != 350_000 {
		t.Errorf("expected technical cost to win, got %d", got)
	}
}
