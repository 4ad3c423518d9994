package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "agora/internal/errors"
	"agora/internal/models"
	"agora/internal/pagination"
	"agora/internal/services"
)

// ProposalHandler handles proposal submission, vetting, and reads.
type ProposalHandler struct {
	proposalService services.ProposalServicer
	auditService    services.AuditServicer
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService services.ProposalServicer, auditService services.AuditServicer) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService, auditService: auditService}
}

// SubmitProposalRequest represents the request payload for submitting a
// proposal. EstimatedCost is in cents.
type SubmitProposalRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=200"`
	Description   string `json:"description" binding:"max=5000"`
	Category      string `json:"category" binding:"max=100"`
	Department    string `json:"department" binding:"max=100"`
	EstimatedCost int64  `json:"estimated_cost" binding:"required,gt=0"`
}

// UpdateProposalStatusRequest represents the request payload for a vetting or
// delivery status transition. TechnicalCost, when set, records the reviewed
// cost the allocation engine will charge instead of the author's estimate.
type UpdateProposalStatusRequest struct {
	Status        models.ProposalStatus `json:"status" binding:"required,proposal_status"`
	TechnicalCost *int64                `json:"technical_cost" binding:"omitempty,gt=0"`
}

// SubmitProposal handles proposal submission by a citizen.
// @Summary     Submit a proposal
// @Description Submit a capital project proposal to a cycle during its submission window
// @Tags        proposals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       request body SubmitProposalRequest true "Proposal details"
// @Success     201 {object} models.BudgetProposal "Proposal submitted"
// @Failure     400 {object} ErrorResponse "Invalid input or cost below cycle minimum"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     409 {object} ErrorResponse "Cycle not in submission phase"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/proposals [post]
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
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

	var req SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	proposal, err := h.proposalService.SubmitProposal(
		cycleID, userID,
		req.Title, req.Description, req.Category, req.Department,
		req.EstimatedCost,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "proposal.submit", "proposal", proposal.ID, c.ClientIP(), map[string]interface{}{
		"cycle_id":       proposal.CycleID,
		"estimated_cost": proposal.EstimatedCost,
	})

	c.JSON(http.StatusCreated, proposal)
}

// GetCycleProposals lists proposals in a cycle.
// @Summary     List cycle proposals
// @Description Get a paginated list of proposals in a cycle, optionally filtered by status
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Items per page" default(20)
// @Param       status query string false "Filter by proposal status"
// @Success     200 {object} pagination.PageResponse[models.BudgetProposal] "Proposals"
// @Failure     400 {object} ErrorResponse "Invalid status filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/proposals [get]
func (h *ProposalHandler) GetCycleProposals(c *gin.Context) {
	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.ProposalStatus
	if raw, exists := c.GetQuery("status"); exists {
		s := models.ProposalStatus(raw)
		if !s.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid status filter"))
			return
		}
		status = &s
	}

	resp, err := h.proposalService.ListCycleProposals(cycleID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetVotableProposals lists the proposals currently approved for voting.
// @Summary     List votable proposals
// @Description Get every proposal in the cycle that is approved for voting, the set a ballot may draw from
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Success     200 {object} map[string][]models.BudgetProposal "Votable proposals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/proposals/votable [get]
func (h *ProposalHandler) GetVotableProposals(c *gin.Context) {
	cycleID, err := parsePathID(c, "cycle_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposals, err := h.proposalService.ListVotable(cycleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// GetProposal returns a single proposal.
// @Summary     Get a proposal
// @Description Get a proposal by ID
// @Tags        proposals
// @Produce     json
// @Security    BearerAuth
// @Param       proposal_id path string true "Proposal ID"
// @Success     200 {object} models.BudgetProposal "Proposal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{proposal_id} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	proposalID, err := parsePathID(c, "proposal_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposal, err := h.proposalService.GetProposalByID(proposalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// UpdateProposalStatus applies a vetting or delivery status transition.
// @Summary     Update proposal status
// @Description Move a proposal through vetting (under_review, approved_for_voting, rejected) or delivery (in_progress, completed). Selection happens only through cycle finalization.
// @Tags        proposals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       proposal_id path string true "Proposal ID"
// @Param       request body UpdateProposalStatusRequest true "Target status"
// @Success     200 {object} models.BudgetProposal "Proposal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     409 {object} ErrorResponse "Illegal status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/proposals/{proposal_id}/status [patch]
func (h *ProposalHandler) UpdateProposalStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	proposalID, err := parsePathID(c, "proposal_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProposalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	proposal, err := h.proposalService.UpdateProposalStatus(proposalID, req.Status, req.TechnicalCost)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{"status": proposal.Status}
	if req.TechnicalCost != nil {
		changes["technical_cost"] = *req.TechnicalCost
	}
	h.auditService.Log(userID, "proposal.update_status", "proposal", proposal.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, proposal)
}
