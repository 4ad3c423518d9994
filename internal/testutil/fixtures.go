package testutil

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"agora/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active citizen with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleCitizen)
}

// CreateTestAdmin creates an active staff user.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCycle creates an active cycle whose windows place it in the
// requested phase right now. Budget is $10,000.00, quota 3 votes.
func CreateTestCycle(t *testing.T, db *gorm.DB, phase models.CyclePhase) *models.BudgetCycle {
	t.Helper()

	now := time.Now()
	cycle := &models.BudgetCycle{
		Title:             fmt.Sprintf("Test Cycle %d", nextID()),
		TotalBudgetAmount: 1_000_000,
		MinProjectCost:    0,
		MaxVotesPerUser:   3,
		IsActive:          true,
	}

	switch phase {
	case models.PhaseDraft:
		cycle.SubmissionStartAt = now.Add(1 * time.Hour)
		cycle.SubmissionEndAt = now.Add(2 * time.Hour)
		cycle.VotingStartAt = now.Add(3 * time.Hour)
		cycle.VotingEndAt = now.Add(4 * time.Hour)
	case models.PhaseSubmission:
		cycle.SubmissionStartAt = now.Add(-1 * time.Hour)
		cycle.SubmissionEndAt = now.Add(1 * time.Hour)
		cycle.VotingStartAt = now.Add(2 * time.Hour)
		cycle.VotingEndAt = now.Add(3 * time.Hour)
	case models.PhaseVetting:
		cycle.SubmissionStartAt = now.Add(-3 * time.Hour)
		cycle.SubmissionEndAt = now.Add(-1 * time.Hour)
		cycle.VotingStartAt = now.Add(1 * time.Hour)
		cycle.VotingEndAt = now.Add(2 * time.Hour)
	case models.PhaseVoting:
		cycle.SubmissionStartAt = now.Add(-4 * time.Hour)
		cycle.SubmissionEndAt = now.Add(-3 * time.Hour)
		cycle.VotingStartAt = now.Add(-1 * time.Hour)
		cycle.VotingEndAt = now.Add(1 * time.Hour)
	case models.PhaseClosed:
		cycle.SubmissionStartAt = now.Add(-4 * time.Hour)
		cycle.SubmissionEndAt = now.Add(-3 * time.Hour)
		cycle.VotingStartAt = now.Add(-2 * time.Hour)
		cycle.VotingEndAt = now.Add(-1 * time.Hour)
	default:
		t.Fatalf("CreateTestCycle: unsupported phase %q", phase)
	}

	if err := db.Create(cycle).Error; err != nil {
		t.Fatalf("failed to create test cycle: %v", err)
	}
	return cycle
}

// CreateTestProposal creates a proposal in the given cycle with the given
// status and estimated cost (cents).
func CreateTestProposal(t *testing.T, db *gorm.DB, cycleID, authorID string, status models.ProposalStatus, cost int64) *models.BudgetProposal {
	t.Helper()

	proposal := &models.BudgetProposal{
		CycleID:       cycleID,
		Title:         fmt.Sprintf("Test Proposal %d", nextID()),
		EstimatedCost: cost,
		Status:        status,
		AuthorID:      authorID,
	}
	if err := db.Create(proposal).Error; err != nil {
		t.Fatalf("failed to create test proposal: %v", err)
	}
	return proposal
}

// CreateTestVote seeds a vote directly, keeping the ballot counter and the
// cached vote_count projection consistent the way the ledger would.
func CreateTestVote(t *testing.T, db *gorm.DB, cycleID, voterID, proposalID string) *models.Vote {
	t.Helper()

	vote := &models.Vote{
		CycleID:    cycleID,
		VoterID:    voterID,
		ProposalID: proposalID,
		VotedAt:    time.Now(),
	}
	if err := db.Create(vote).Error; err != nil {
		t.Fatalf("failed to create test vote: %v", err)
	}

	var ballot models.VoterBallot
	err := db.Where("cycle_id = ? AND voter_id = ?", cycleID, voterID).First(&ballot).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ballot = models.VoterBallot{CycleID: cycleID, VoterID: voterID, VotesCast: 1}
		if err := db.Create(&ballot).Error; err != nil {
			t.Fatalf("failed to create test ballot: %v", err)
		}
	case err != nil:
		t.Fatalf("failed to load test ballot: %v", err)
	default:
		if err := db.Model(&ballot).Update("votes_cast", gorm.Expr("votes_cast + 1")).Error; err != nil {
			t.Fatalf("failed to bump test ballot: %v", err)
		}
	}

	if err := db.Model(&models.BudgetProposal{}).
		Where("id = ?", proposalID).
		Update("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
		t.Fatalf("failed to bump test vote count: %v", err)
	}
	return vote
}
