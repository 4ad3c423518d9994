package services

import (
	"time"

	"agora/internal/allocation"
	"agora/internal/models"
	"agora/internal/pagination"
)

// UserServicer defines the contract for the citizen identity shim.
type UserServicer interface {
	RegisterUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CycleWindows holds the four timestamps that bound a cycle's submission and
// voting windows.
type CycleWindows struct {
	SubmissionStartAt time.Time
	SubmissionEndAt   time.Time
	VotingStartAt     time.Time
	VotingEndAt       time.Time
}

// CycleServicer defines the contract for budget-cycle administration and reads.
type CycleServicer interface {
	CreateCycle(title, description string, totalBudget, minProjectCost int64, maxVotesPerUser int, windows CycleWindows) (*models.BudgetCycle, error)
	GetCycleByID(cycleID string) (*models.BudgetCycle, error)
	ListCycles(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.BudgetCycle], error)
	SetCycleActive(cycleID string, active bool) (*models.BudgetCycle, error)
	UpdateCycleWindows(cycleID string, windows CycleWindows) (*models.BudgetCycle, error)
}

// ProposalServicer defines the contract for proposal submission, vetting, and
// the votable read model consumed by the ledger and the allocation engine.
type ProposalServicer interface {
	SubmitProposal(cycleID, authorID, title, description, category, department string, estimatedCost int64) (*models.BudgetProposal, error)
	GetProposalByID(proposalID string) (*models.BudgetProposal, error)
	ListCycleProposals(cycleID string, page pagination.PageRequest, status *models.ProposalStatus) (*pagination.PageResponse[models.BudgetProposal], error)
	ListVotable(cycleID string) ([]models.BudgetProposal, error)
	UpdateProposalStatus(proposalID string, next models.ProposalStatus, technicalCost *int64) (*models.BudgetProposal, error)
}

// VoteServicer defines the contract for the append-only vote ledger. It is
// the sole writer of vote rows and the per-voter quota counters.
type VoteServicer interface {
	CastVote(cycleID, voterID, proposalID string) (*models.Vote, error)
	Tally(proposalID string) (int64, error)
	QuotaRemaining(cycleID, voterID string) (int, error)
	GetVoterVotes(cycleID, voterID string) ([]models.Vote, error)
}

// AllocationServicer runs the allocation engine against stored state: Simulate
// for read-only what-if runs, Finalize for the one-time committed run, and
// Winners for reading the committed result back.
type AllocationServicer interface {
	Simulate(cycleID string, budgetOverride *int64) (*allocation.Result, error)
	Finalize(cycleID, concludingMessage string) (*allocation.Result, error)
	Winners(cycleID string) ([]models.BudgetProposal, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
