package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "agora/internal/errors"
	"agora/internal/models"
	"agora/internal/pagination"
	"agora/internal/services"
)

// CycleHandler handles budget-cycle administration and reads.
type CycleHandler struct {
	cycleService services.CycleServicer
	auditService services.AuditServicer
}

// NewCycleHandler creates a new CycleHandler.
func NewCycleHandler(cycleService services.CycleServicer, auditService services.AuditServicer) *CycleHandler {
	return &CycleHandler{cycleService: cycleService, auditService: auditService}
}

// CreateCycleRequest represents the request payload for creating a cycle.
// Amounts are in cents.
type CreateCycleRequest struct {
	Title             string    `json:"title" binding:"required,min=1,max=200"`
	Description       string    `json:"description" binding:"max=2000"`
	TotalBudgetAmount int64     `json:"total_budget_amount" binding:"required,gt=0"`
	MinProjectCost    int64     `json:"min_project_cost" binding:"omitempty,gte=0"`
	MaxVotesPerUser   int       `json:"max_votes_per_user" binding:"required,min=1"`
	SubmissionStartAt time.Time `json:"submission_start_at" binding:"required"`
	SubmissionEndAt   time.Time `json:"submission_end_at" binding:"required"`
	VotingStartAt     time.Time `json:"voting_start_at" binding:"required"`
	VotingEndAt       time.Time `json:"voting_end_at" binding:"required"`
}

// UpdateCycleWindowsRequest represents the request payload for rescheduling
// a cycle's submission and voting windows.
type UpdateCycleWindowsRequest struct {
	SubmissionStartAt time.Time `json:"submission_start_at" binding:"required"`
	SubmissionEndAt   time.Time `json:"submission_end_at" binding:"required"`
	VotingStartAt     time.Time `json:"voting_start_at" binding:"required"`
	VotingEndAt       time.Time `json:"voting_end_at" binding:"required"`
}

// SetCycleActiveRequest represents the request payload for the activation switch.
type SetCycleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CycleResponse is a cycle together with its phase as derived at response time.
type CycleResponse struct {
	models.BudgetCycle
	Phase models.CyclePhase `json:"phase"`
}

func cyclePayload(cycle *models.BudgetCycle) CycleResponse {
	return CycleResponse{BudgetCycle: *cycle, Phase: cycle.Phase(time.Now())}
}

func (r *CreateCycleRequest) windows() services.CycleWindows {
	return services.CycleWindows{
		SubmissionStartAt: r.SubmissionStartAt,
		SubmissionEndAt:   r.SubmissionEndAt,
		VotingStartAt:     r.VotingStartAt,
		VotingEndAt:       r.VotingEndAt,
	}
}

// CreateCycle handles the creation of a new budget cycle.
// @Summary     Create a budget cycle
// @Description Create a new participatory budgeting cycle. Cycles start inactive and must be activated before citizens can participate.
// @Tags        cycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCycleRequest true "Cycle details"
// @Success     201 {object} CycleResponse "Cycle created"
// @Failure     400 {object} ErrorResponse "Invalid input or inconsistent windows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/cycles [post]
func (h *CycleHandler) CreateCycle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cycle, err := h.cycleService.CreateCycle(
		req.Title, req.Description,
		req.TotalBudgetAmount, req.MinProjectCost,
		req.MaxVotesPerUser, req.windows(),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "cycle.create", "cycle", cycle.ID, c.ClientIP(), map[string]interface{}{
		"title":               cycle.Title,
		"total_budget_amount": cycle.TotalBudgetAmount,
	})

	c.JSON(http.StatusCreated, cyclePayload(cycle))
}

// GetCycles lists budget cycles.
// @Summary     List budget cycles
// @Description Get a paginated list of budget cycles, optionally filtered by activation state
// @Tags        cycles
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Items per page" default(20)
// @Param       is_active query bool false "Filter by activation state"
// @Success     200 {object} pagination.PageResponse[models.BudgetCycle] "Cycles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles [get]
func (h *CycleHandler) GetCycles(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var isActive *bool
	if raw, exists := c.GetQuery("is_active"); exists {
		active := raw == "true"
		isActive = &active
	}

	resp, err := h.cycleService.ListCycles(page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCycle returns a single cycle with its derived phase.
// @Summary     Get a budget cycle
// @Description Get a budget cycle by ID, including its current phase as derived from the server clock
// @Tags        cycles
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Success     200 {object} CycleResponse "Cycle"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id} [get]
func (h *CycleHandler) GetCycle(c *gin.Context) {
	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycle, err := h.cycleService.GetCycleByID(cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cyclePayload(cycle))
}

// SetCycleActive flips the cycle's activation switch.
// @Summary     Activate or deactivate a cycle
// @Description Toggle the administrative activation switch. An inactive cycle stays in the draft phase regardless of its windows.
// @Tags        cycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       request body SetCycleActiveRequest true "Activation state"
// @Success     200 {object} CycleResponse "Cycle updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     409 {object} ErrorResponse "Cycle is finalized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/cycles/{cycle_id}/active [patch]
func (h *CycleHandler) SetCycleActive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetCycleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cycle, err := h.cycleService.SetCycleActive(cycleID, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "cycle.set_active", "cycle", cycle.ID, c.ClientIP(), map[string]interface{}{
		"is_active": cycle.IsActive,
	})

	c.JSON(http.StatusOK, cyclePayload(cycle))
}

// UpdateCycleWindows reschedules a cycle's submission and voting windows.
// @Summary     Update cycle windows
// @Description Reschedule the submission and voting windows of a cycle that has not been finalized
// @Tags        cycles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       request body UpdateCycleWindowsRequest true "New windows"
// @Success     200 {object} CycleResponse "Cycle updated"
// @Failure     400 {object} ErrorResponse "Inconsistent windows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     409 {object} ErrorResponse "Cycle is finalized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/cycles/{cycle_id}/windows [patch]
func (h *CycleHandler) UpdateCycleWindows(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCycleWindowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cycle, err := h.cycleService.UpdateCycleWindows(cycleID, services.CycleWindows{
		SubmissionStartAt: req.SubmissionStartAt,
		SubmissionEndAt:   req.SubmissionEndAt,
		VotingStartAt:     req.VotingStartAt,
		VotingEndAt:       req.VotingEndAt,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "cycle.update_windows", "cycle", cycle.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, cyclePayload(cycle))
}
