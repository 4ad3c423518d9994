package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "agora/internal/errors"
	"agora/internal/models"
	"agora/internal/pagination"
)

// proposalService handles proposal submission, vetting transitions, and the
// votable read model.
type proposalService struct {
	db           *gorm.DB
	cycleService CycleServicer
}

// NewProposalService creates a new ProposalServicer.
func NewProposalService(db *gorm.DB, cycleService CycleServicer) ProposalServicer {
	return &proposalService{db: db, cycleService: cycleService}
}

// SubmitProposal creates a new proposal in a cycle. Only legal while the
// cycle's submission window is open, and the estimate must clear the cycle's
// minimum project cost.
func (s *proposalService) SubmitProposal(
	cycleID, authorID, title, description, category, department string,
	estimatedCost int64,
) (*models.BudgetProposal, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if estimatedCost <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "estimated cost must be greater than zero")
	}

	cycle, err := s.cycleService.GetCycleByID(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Phase(time.Now()) != models.PhaseSubmission {
		return nil, apperrors.ErrCycleNotInSubmissionPhase
	}
	if estimatedCost < cycle.MinProjectCost {
		return nil, apperrors.ErrProposalCostTooLow
	}

	proposal := &models.BudgetProposal{
		CycleID:       cycleID,
		Title:         title,
		Description:   description,
		Category:      category,
		Department:    department,
		EstimatedCost: estimatedCost,
		Status:        models.ProposalStatusSubmitted,
		AuthorID:      authorID,
	}

	if err := s.db.Create(proposal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return proposal, nil
}

// GetProposalByID returns a proposal by ID.
func (s *proposalService) GetProposalByID(proposalID string) (*models.BudgetProposal, error) {
	var proposal models.BudgetProposal
	if err := s.db.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProposalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &proposal, nil
}

// ListCycleProposals returns a paginated list of a cycle's proposals with an
// optional status filter.
func (s *proposalService) ListCycleProposals(
	cycleID string,
	page pagination.PageRequest,
	status *models.ProposalStatus,
) (*pagination.PageResponse[models.BudgetProposal], error) {
	if _, err := s.cycleService.GetCycleByID(cycleID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.BudgetProposal{}).Where("cycle_id = ?", cycleID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var proposals []models.BudgetProposal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at ASC").
		Find(&proposals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(proposals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListVotable returns every proposal in the cycle that may receive votes.
func (s *proposalService) ListVotable(cycleID string) ([]models.BudgetProposal, error) {
	if _, err := s.cycleService.GetCycleByID(cycleID); err != nil {
		return nil, err
	}

	var proposals []models.BudgetProposal
	if err := s.db.
		Where("cycle_id = ? AND status = ?", cycleID, models.ProposalStatusApprovedForVoting).
		Order("created_at ASC").
		Find(&proposals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return proposals, nil
}

// UpdateProposalStatus applies a vetting or delivery transition. The closed
// transition matrix lives on ProposalStatus; anything outside it is refused.
// A technical cost may be recorded alongside a review transition.
func (s *proposalService) UpdateProposalStatus(
	proposalID string,
	next models.ProposalStatus,
	technicalCost *int64,
) (*models.BudgetProposal, error) {
	if !next.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown proposal status")
	}
	if technicalCost != nil && *technicalCost <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "technical cost must be greater than zero")
	}

	proposal, err := s.GetProposalByID(proposalID)
	if err != nil {
		return nil, err
	}

	cycle, err := s.cycleService.GetCycleByID(proposal.CycleID)
	if err != nil {
		return nil, err
	}
	// Vetting transitions end when the cycle does; delivery transitions
	// (selected -> in_progress -> completed) are only meaningful afterwards.
	if cycle.IsFinalized() && next != models.ProposalStatusInProgress && next != models.ProposalStatusCompleted {
		return nil, apperrors.ErrCycleFinalized
	}

	if !proposal.Status.CanTransitionTo(next) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition,
			"cannot move proposal from "+string(proposal.Status)+" to "+string(next))
	}

	updates := map[string]interface{}{"status": next}
	if technicalCost != nil {
		updates["technical_cost"] = *technicalCost
	}
	if err := s.db.Model(proposal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return proposal, nil
}
