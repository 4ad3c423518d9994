package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "agora/internal/errors"
	"agora/internal/models"
	"agora/internal/pagination"
)

// cycleService handles budget-cycle administration and reads.
type cycleService struct {
	db *gorm.DB
}

// NewCycleService creates a new CycleServicer.
func NewCycleService(db *gorm.DB) CycleServicer {
	return &cycleService{db: db}
}

// validateWindows checks the ordering of a cycle's time windows. The vetting
// window between submission end and voting start may be empty but never
// negative.
func validateWindows(w CycleWindows) error {
	switch {
	case !w.SubmissionStartAt.Before(w.SubmissionEndAt):
		return apperrors.WithMessage(apperrors.ErrInvalidCycleWindow, "submission_start_at must be before submission_end_at")
	case w.VotingStartAt.Before(w.SubmissionEndAt):
		return apperrors.WithMessage(apperrors.ErrInvalidCycleWindow, "voting_start_at must not be before submission_end_at")
	case !w.VotingStartAt.Before(w.VotingEndAt):
		return apperrors.WithMessage(apperrors.ErrInvalidCycleWindow, "voting_start_at must be before voting_end_at")
	}
	return nil
}

// CreateCycle creates a new cycle in draft state. Cycles are created inactive
// and must be explicitly activated before citizens can act on them.
func (s *cycleService) CreateCycle(
	title, description string,
	totalBudget, minProjectCost int64,
	maxVotesPerUser int,
	windows CycleWindows,
) (*models.BudgetCycle, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if totalBudget <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total budget must be greater than zero")
	}
	if minProjectCost < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "minimum project cost must not be negative")
	}
	if maxVotesPerUser < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "max votes per user must be at least 1")
	}
	if err := validateWindows(windows); err != nil {
		return nil, err
	}

	cycle := &models.BudgetCycle{
		Title:             title,
		Description:       description,
		TotalBudgetAmount: totalBudget,
		MinProjectCost:    minProjectCost,
		MaxVotesPerUser:   maxVotesPerUser,
		SubmissionStartAt: windows.SubmissionStartAt,
		SubmissionEndAt:   windows.SubmissionEndAt,
		VotingStartAt:     windows.VotingStartAt,
		VotingEndAt:       windows.VotingEndAt,
		IsActive:          false,
	}

	if err := s.db.Create(cycle).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return cycle, nil
}

// GetCycleByID returns a cycle by ID.
func (s *cycleService) GetCycleByID(cycleID string) (*models.BudgetCycle, error) {
	var cycle models.BudgetCycle
	if err := s.db.First(&cycle, "id = ?", cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cycle, nil
}

// ListCycles returns a paginated list of cycles, newest first.
func (s *cycleService) ListCycles(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.BudgetCycle], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetCycle{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cycles []models.BudgetCycle
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&cycles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cycles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// SetCycleActive flips the administrative kill-switch. A finalized cycle is
// immutable, including its active flag.
func (s *cycleService) SetCycleActive(cycleID string, active bool) (*models.BudgetCycle, error) {
	cycle, err := s.GetCycleByID(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsFinalized() {
		return nil, apperrors.ErrCycleFinalized
	}

	if err := s.db.Model(cycle).Update("is_active", active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cycle, nil
}

// UpdateCycleWindows replaces the cycle's submission and voting windows.
// Forbidden once the cycle has been finalized.
func (s *cycleService) UpdateCycleWindows(cycleID string, windows CycleWindows) (*models.BudgetCycle, error) {
	cycle, err := s.GetCycleByID(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsFinalized() {
		return nil, apperrors.ErrCycleFinalized
	}
	if err := validateWindows(windows); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"submission_start_at": windows.SubmissionStartAt,
		"submission_end_at":   windows.SubmissionEndAt,
		"voting_start_at":     windows.VotingStartAt,
		"voting_end_at":       windows.VotingEndAt,
	}
	if err := s.db.Model(cycle).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return cycle, nil
}
