package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"agora/internal/allocation"
	apperrors "agora/internal/errors"
	"agora/internal/logger"
	"agora/internal/models"
)

// allocationService runs the pure allocation engine against stored state:
// read-only simulations at hypothetical budgets, and the one-time committed
// finalization run.
type allocationService struct {
	db *gorm.DB
}

// NewAllocationService creates a new AllocationServicer.
func NewAllocationService(db *gorm.DB) AllocationServicer {
	return &allocationService{db: db}
}

// loadCandidates snapshots the cycle's votable proposals with tallies
// recounted from the vote ledger. The cached vote_count column is not
// trusted for allocation.
func (s *allocationService) loadCandidates(tx *gorm.DB, cycleID string) ([]allocation.Candidate, error) {
	var proposals []models.BudgetProposal
	if err := tx.
		Where("cycle_id = ? AND status = ?", cycleID, models.ProposalStatusApprovedForVoting).
		Find(&proposals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type tallyRow struct {
		ProposalID string
		Count      int64
	}
	var rows []tallyRow
	if err := tx.Model(&models.Vote{}).
		Select("proposal_id, COUNT(*) AS count").
		Where("cycle_id = ?", cycleID).
		Group("proposal_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	tallies := make(map[string]int64, len(rows))
	for _, r := range rows {
		tallies[r.ProposalID] = r.Count
	}

	candidates := make([]allocation.Candidate, 0, len(proposals))
	for _, p := range proposals {
		candidates = append(candidates, allocation.Candidate{
			ID:        p.ID,
			Title:     p.Title,
			VoteCount: tallies[p.ID],
			Cost:      p.AllocationCost(),
			CreatedAt: p.CreatedAt,
		})
	}
	return candidates, nil
}

// Simulate runs the allocation engine without touching persisted state,
// against the cycle's configured budget or a caller-supplied override.
// Safe to call at any time and concurrently.
func (s *allocationService) Simulate(cycleID string, budgetOverride *int64) (*allocation.Result, error) {
	if budgetOverride != nil && *budgetOverride < 0 {
		return nil, apperrors.ErrInvalidBudgetOverride
	}

	var cycle models.BudgetCycle
	if err := s.db.First(&cycle, "id = ?", cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := cycle.TotalBudgetAmount
	if budgetOverride != nil {
		budget = *budgetOverride
	}

	candidates, err := s.loadCandidates(s.db, cycleID)
	if err != nil {
		return nil, err
	}

	return allocation.Allocate(candidates, budget), nil
}

// Finalize commits the cycle's winner set exactly once. Only legal after
// voting has closed and while finalized_at is still unset. The claim on
// finalized_at is a guarded UPDATE, so of two racing finalize calls exactly
// one wins; the other observes ALREADY_FINALIZED and mutates nothing.
func (s *allocationService) Finalize(cycleID, concludingMessage string) (*allocation.Result, error) {
	var result *allocation.Result
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cycle models.BudgetCycle
		if err := tx.First(&cycle, "id = ?", cycleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCycleNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if cycle.IsFinalized() {
			return apperrors.ErrAlreadyFinalized
		}

		now := time.Now()
		if cycle.Phase(now) != models.PhaseClosed {
			return apperrors.ErrCycleNotClosed
		}

		claim := tx.Model(&models.BudgetCycle{}).
			Where("id = ? AND finalized_at IS NULL", cycleID).
			Updates(map[string]interface{}{
				"finalized_at":       now,
				"concluding_message": concludingMessage,
			})
		if claim.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, claim.Error)
		}
		if claim.RowsAffected == 0 {
			return apperrors.ErrAlreadyFinalized
		}

		candidates, err := s.loadCandidates(tx, cycleID)
		if err != nil {
			return err
		}
		result = allocation.Allocate(candidates, cycle.TotalBudgetAmount)

		if ids := result.SelectedIDs(); len(ids) > 0 {
			if err := tx.Model(&models.BudgetProposal{}).
				Where("id IN ?", ids).
				Update("status", models.ProposalStatusSelected).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		logger.Get().Infow("cycle finalized",
			"cycle_id", cycleID,
			"winners", len(result.Selected),
			"total_cost", result.TotalCost,
			"utilization_rate", result.UtilizationRate,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Winners returns the committed winner set of a finalized cycle.
func (s *allocationService) Winners(cycleID string) ([]models.BudgetProposal, error) {
	var cycle models.BudgetCycle
	if err := s.db.First(&cycle, "id = ?", cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !cycle.IsFinalized() {
		return nil, apperrors.ErrCycleNotFinalized
	}

	var winners []models.BudgetProposal
	if err := s.db.
		Where("cycle_id = ? AND status IN ?", cycleID, []models.ProposalStatus{
			models.ProposalStatusSelected,
			models.ProposalStatusInProgress,
			models.ProposalStatusCompleted,
		}).
		Order("vote_count DESC").
		Find(&winners).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return winners, nil
}
