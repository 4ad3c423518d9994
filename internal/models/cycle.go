package models

import "time"

// CyclePhase is the derived lifecycle stage of a budget cycle. It is never
// stored; it is always computed from the cycle's configured windows and the
// server clock.
type CyclePhase string

const (
	PhaseDraft      CyclePhase = "draft"
	PhaseSubmission CyclePhase = "submission"
	PhaseVetting    CyclePhase = "vetting"
	PhaseVoting     CyclePhase = "voting"
	PhaseClosed     CyclePhase = "closed"
	PhaseFinalized  CyclePhase = "finalized"
)

// BudgetCycle represents one participatory budgeting round: a fixed fiscal
// budget, a submission window, and a voting window. All amounts are in cents.
type BudgetCycle struct {
	Base
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `json:"description"`
	TotalBudgetAmount int64      `gorm:"type:bigint;not null" json:"total_budget_amount"`
	MinProjectCost    int64      `gorm:"type:bigint;not null;default:0" json:"min_project_cost"`
	MaxVotesPerUser   int        `gorm:"not null;default:1" json:"max_votes_per_user"`
	SubmissionStartAt time.Time  `gorm:"not null" json:"submission_start_at"`
	SubmissionEndAt   time.Time  `gorm:"not null" json:"submission_end_at"`
	VotingStartAt     time.Time  `gorm:"not null" json:"voting_start_at"`
	VotingEndAt       time.Time  `gorm:"not null" json:"voting_end_at"`
	IsActive          bool       `gorm:"default:false" json:"is_active"`
	FinalizedAt       *time.Time `json:"finalized_at,omitempty"`
	ConcludingMessage string     `json:"concluding_message,omitempty"`

	// Relationships
	Proposals []BudgetProposal `gorm:"foreignKey:CycleID" json:"proposals,omitempty"`
}

// Phase resolves the cycle's current phase from its configured windows.
// Rules are evaluated in order: a finalized cycle is Finalized no matter
// what the clock says, and an inactive cycle stays in Draft (the
// administrative kill-switch blocks all citizen actions).
func (c *BudgetCycle) Phase(now time.Time) CyclePhase {
	switch {
	case c.FinalizedAt != nil:
		return PhaseFinalized
	case !c.IsActive:
		return PhaseDraft
	case now.Before(c.SubmissionStartAt):
		return PhaseDraft
	case !now.After(c.SubmissionEndAt):
		return PhaseSubmission
	case now.Before(c.VotingStartAt):
		return PhaseVetting
	case !now.After(c.VotingEndAt):
		return PhaseVoting
	default:
		return PhaseClosed
	}
}

// IsFinalized reports whether the cycle's winner set has been committed.
// A finalized cycle is immutable.
func (c *BudgetCycle) IsFinalized() bool {
	return c.FinalizedAt != nil
}
