package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "agora/internal/errors"
	"agora/internal/services"
)

// AllocationHandler exposes the allocation engine: read-only simulations,
// the one-time finalization, and the committed winner list.
type AllocationHandler struct {
	allocationService services.AllocationServicer
	auditService      services.AuditServicer
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(allocationService services.AllocationServicer, auditService services.AuditServicer) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService, auditService: auditService}
}

// SimulateRequest represents the request payload for a what-if allocation
// run. BudgetOverride, when set, replaces the cycle's configured budget for
// this run only; zero is a legal override and yields an empty winner set.
type SimulateRequest struct {
	BudgetOverride *int64 `json:"budget_override"`
}

// FinalizeRequest represents the request payload for cycle finalization.
type FinalizeRequest struct {
	ConcludingMessage string `json:"concluding_message" binding:"max=2000"`
}

// Simulate runs the allocation engine without persisting anything.
// @Summary     Simulate an allocation
// @Description Run the allocation against current tallies, optionally with a budget override. Nothing is persisted; repeated calls with unchanged votes return identical results.
// @Tags        allocation
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       request body SimulateRequest false "Optional budget override"
// @Success     200 {object} allocation.Result "Simulation result"
// @Failure     400 {object} ErrorResponse "Negative budget override"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/cycles/{cycle_id}/simulate [post]
func (h *AllocationHandler) Simulate(c *gin.Context) {
	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SimulateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.allocationService.Simulate(cycleID, req.BudgetOverride)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Finalize commits the winner set for a closed cycle.
// @Summary     Finalize a cycle
// @Description Run the allocation one final time, mark the winners selected, and permanently freeze the cycle. Exactly one finalization can ever succeed per cycle.
// @Tags        allocation
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       request body FinalizeRequest false "Optional concluding message"
// @Success     200 {object} allocation.Result "Committed result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     409 {object} ErrorResponse "Cycle not closed or already finalized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/cycles/{cycle_id}/finalize [post]
func (h *AllocationHandler) Finalize(c *gin.Context) {
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

	var req FinalizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.allocationService.Finalize(cycleID, req.ConcludingMessage)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "cycle.finalize", "cycle", cycleID, c.ClientIP(), map[string]interface{}{
		"selected_count": len(result.Selected),
		"total_cost":     result.TotalCost,
	})

	c.JSON(http.StatusOK, result)
}

// GetWinners returns the committed winner list of a finalized cycle.
// @Summary     List cycle winners
// @Description Get the proposals selected at finalization, including those since moved to in_progress or completed
// @Tags        allocation
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Success     200 {object} map[string][]models.BudgetProposal "Winners"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     409 {object} ErrorResponse "Cycle not finalized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/winners [get]
func (h *AllocationHandler) GetWinners(c *gin.Context) {
	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	winners, err := h.allocationService.Winners(cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"winners": winners})
}
