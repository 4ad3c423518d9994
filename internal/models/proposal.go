package models

// ProposalStatus is the closed set of states a proposal moves through.
type ProposalStatus string

const (
	ProposalStatusSubmitted         ProposalStatus = "submitted"
	ProposalStatusUnderReview       ProposalStatus = "under_review"
	ProposalStatusApprovedForVoting ProposalStatus = "approved_for_voting"
	ProposalStatusRejected          ProposalStatus = "rejected"
	ProposalStatusSelected          ProposalStatus = "selected"
	ProposalStatusInProgress        ProposalStatus = "in_progress"
	ProposalStatusCompleted         ProposalStatus = "completed"
)

// Valid reports whether s is one of the known proposal statuses.
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusSubmitted, ProposalStatusUnderReview, ProposalStatusApprovedForVoting,
		ProposalStatusRejected, ProposalStatusSelected, ProposalStatusInProgress, ProposalStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a vetting or delivery transition from s to
// next is legal. Selection itself (approved_for_voting -> selected) is not in
// this matrix: only cycle finalization may select a proposal.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	switch s {
	case ProposalStatusSubmitted:
		return next == ProposalStatusUnderReview || next == ProposalStatusApprovedForVoting || next == ProposalStatusRejected
	case ProposalStatusUnderReview:
		return next == ProposalStatusApprovedForVoting || next == ProposalStatusRejected
	case ProposalStatusSelected:
		return next == ProposalStatusInProgress
	case ProposalStatusInProgress:
		return next == ProposalStatusCompleted
	case ProposalStatusApprovedForVoting, ProposalStatusRejected, ProposalStatusCompleted:
		return false
	}
	return false
}

// BudgetProposal represents a citizen-submitted capital project within a cycle.
// Costs are in cents.
type BudgetProposal struct {
	Base
	CycleID       string         `gorm:"type:uuid;not null;index" json:"cycle_id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Department    string         `json:"department"`
	EstimatedCost int64          `gorm:"type:bigint;not null" json:"estimated_cost"`
	TechnicalCost *int64         `gorm:"type:bigint" json:"technical_cost,omitempty"`
	Status        ProposalStatus `gorm:"not null;default:'submitted';index" json:"status"`
	VoteCount     int64          `gorm:"not null;default:0" json:"vote_count"`
	AuthorID      string         `gorm:"type:uuid;not null;index" json:"author_id"`

	// Relationships
	Cycle BudgetCycle `gorm:"foreignKey:CycleID" json:"-"`
}

// AllocationCost returns the cost the allocation engine charges against the
// budget: the technical-review figure when one exists, otherwise the
// author's estimate.
func (p *BudgetProposal) AllocationCost() int64 {
	if p.TechnicalCost != nil {
		return *p.TechnicalCost
	}
	return p.EstimatedCost
}

// IsVotable reports whether the proposal may receive votes and be considered
// for allocation.
func (p *BudgetProposal) IsVotable() bool {
	return p.Status == ProposalStatusApprovedForVoting
}
