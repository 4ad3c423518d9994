package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "agora/internal/errors"
	"agora/internal/services"
)

// VoteHandler handles vote casting and ballot reads. The voter identity is
// always taken from the authenticated token, never from the request body.
type VoteHandler struct {
	voteService  services.VoteServicer
	auditService services.AuditServicer
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(voteService services.VoteServicer, auditService services.AuditServicer) *VoteHandler {
	return &VoteHandler{voteService: voteService, auditService: auditService}
}

// CastVoteRequest represents the request payload for casting a vote.
type CastVoteRequest struct {
	ProposalID string `json:"proposal_id" binding:"required,uuid"`
}

// CastVote records one vote by the authenticated voter.
// @Summary     Cast a vote
// @Description Cast one vote for a votable proposal during the cycle's voting window. Each voter gets at most one vote per proposal and at most the cycle's quota in total.
// @Tags        votes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Param       request body CastVoteRequest true "Proposal to vote for"
// @Success     201 {object} models.Vote "Vote recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle or proposal not found"
// @Failure     409 {object} ErrorResponse "Not in voting phase, proposal not votable, duplicate vote, or quota exhausted"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/votes [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
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

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	vote, err := h.voteService.CastVote(cycleID, userID, req.ProposalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "vote.cast", "vote", vote.ID, c.ClientIP(), map[string]interface{}{
		"cycle_id":    vote.CycleID,
		"proposal_id": vote.ProposalID,
	})

	c.JSON(http.StatusCreated, vote)
}

// GetMyVotes lists the authenticated voter's votes in a cycle.
// @Summary     List my votes
// @Description Get the authenticated voter's votes in a cycle, oldest first
// @Tags        votes
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Success     200 {object} map[string][]models.Vote "Votes"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/votes/mine [get]
func (h *VoteHandler) GetMyVotes(c *gin.Context) {
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

	votes, err := h.voteService.GetVoterVotes(cycleID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"votes": votes})
}

// GetQuota returns how many votes the authenticated voter has left in a cycle.
// @Summary     Get remaining vote quota
// @Description Get the number of votes the authenticated voter may still cast in the cycle
// @Tags        votes
// @Produce     json
// @Security    BearerAuth
// @Param       cycle_id path string true "Cycle ID"
// @Success     200 {object} map[string]int "Remaining quota"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Cycle not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cycles/{cycle_id}/quota [get]
func (h *VoteHandler) GetQuota(c *gin.Context) {
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

	remaining, err := h.voteService.QuotaRemaining(cycleID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// GetTally returns the current vote count for a proposal.
// @Summary     Get proposal tally
// @Description Get a proposal's vote count, recounted from the vote ledger
// @Tags        votes
// @Produce     json
// @Security    BearerAuth
// @Param       proposal_id path string true "Proposal ID"
// @Success     200 {object} map[string]int64 "Tally"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Proposal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /proposals/{proposal_id}/tally [get]
func (h *VoteHandler) GetTally(c *gin.Context) {
	proposalID, err := parsePathID(c, "proposal_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tally, err := h.voteService.Tally(proposalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal_id": proposalID, "vote_count": tally})
}
