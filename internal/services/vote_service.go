package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "agora/internal/errors"
	"agora/internal/models"
)

// voteService is the sole writer of the vote ledger and the per-voter quota
// counters. All reads that matter recount from vote rows; the vote_count
// column on proposals is a cached projection maintained in the same
// transaction as the insert.
type voteService struct {
	db *gorm.DB
}

// NewVoteService creates a new VoteServicer.
func NewVoteService(db *gorm.DB) VoteServicer {
	return &voteService{db: db}
}

// CastVote records one vote by voterID for proposalID inside a single
// transaction. Preconditions, checked in order: the cycle is in its voting
// window, the proposal is approved for voting, the voter has not already
// voted for this proposal, and the voter has quota left.
//
// This is the one concurrency-critical path in the engine. The quota check
// is a check-then-act race under concurrent requests from the same voter, so
// it is enforced with a compare-and-swap on the voter's ballot counter: a
// conditional UPDATE that only advances while votes_cast < max. When two
// casts race for the last slot, exactly one UPDATE matches a row; the loser
// sees zero rows affected and fails with QUOTA_EXCEEDED, rolling back
// nothing. The unique index on (cycle_id, voter_id, proposal_id)
// independently stops same-proposal double votes that slip past the
// read-before-write check.
func (s *voteService) CastVote(cycleID, voterID, proposalID string) (*models.Vote, error) {
	var vote *models.Vote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cycle models.BudgetCycle
		if err := tx.First(&cycle, "id = ?", cycleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCycleNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		now := time.Now()
		if cycle.Phase(now) != models.PhaseVoting {
			return apperrors.ErrCycleNotInVotingPhase
		}

		var proposal models.BudgetProposal
		if err := tx.First(&proposal, "id = ? AND cycle_id = ?", proposalID, cycleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProposalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !proposal.IsVotable() {
			return apperrors.ErrProposalNotVotable
		}

		var existing int64
		if err := tx.Model(&models.Vote{}).
			Where("cycle_id = ? AND voter_id = ? AND proposal_id = ?", cycleID, voterID, proposalID).
			Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if existing > 0 {
			return apperrors.ErrDuplicateVote
		}

		// Ensure the ballot row exists, then advance it with the CAS.
		ballot := models.VoterBallot{CycleID: cycleID, VoterID: voterID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ballot).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		res := tx.Model(&models.VoterBallot{}).
			Where("cycle_id = ? AND voter_id = ? AND votes_cast < ?", cycleID, voterID, cycle.MaxVotesPerUser).
			Update("votes_cast", gorm.Expr("votes_cast + 1"))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrQuotaExceeded
		}

		v := &models.Vote{
			CycleID:    cycleID,
			VoterID:    voterID,
			ProposalID: proposalID,
			VotedAt:    now,
		}
		if err := tx.Create(v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateVote
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.BudgetProposal{}).
			Where("id = ?", proposalID).
			Update("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		vote = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// Tally recounts a proposal's votes from the ledger. The proposal's cached
// vote_count is deliberately not consulted.
func (s *voteService) Tally(proposalID string) (int64, error) {
	var proposal models.BudgetProposal
	if err := s.db.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrProposalNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.Vote{}).
		Where("proposal_id = ?", proposalID).
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// QuotaRemaining returns how many distinct proposals the voter may still vote
// for in the cycle, counted from the ledger.
func (s *voteService) QuotaRemaining(cycleID, voterID string) (int, error) {
	var cycle models.BudgetCycle
	if err := s.db.First(&cycle, "id = ?", cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrCycleNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var used int64
	if err := s.db.Model(&models.Vote{}).
		Where("cycle_id = ? AND voter_id = ?", cycleID, voterID).
		Count(&used).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	remaining := cycle.MaxVotesPerUser - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// GetVoterVotes returns the voter's votes in the cycle, oldest first.
func (s *voteService) GetVoterVotes(cycleID, voterID string) ([]models.Vote, error) {
	var votes []models.Vote
	if err := s.db.
		Where("cycle_id = ? AND voter_id = ?", cycleID, voterID).
		Order("voted_at ASC").
		Find(&votes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return votes, nil
}
