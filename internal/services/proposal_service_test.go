package services

import (
	"testing"

	"gorm.io/gorm"

	"agora/internal/models"
	"agora/internal/pagination"
	"agora/internal/testutil"
)

func newProposalService(db *gorm.DB) ProposalServicer {
	return NewProposalService(db, NewCycleService(db))
}

func TestSubmitProposal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseSubmission)

		proposal, err := svc.SubmitProposal(cycle.ID, author.ID, "New Playground", "A playground for the riverside park", "parks", "public-works", 250_000)
		testutil.AssertNoError(t, err)

		if proposal.ID == "" {
			t.Fatal("expected proposal to have an ID")
		}
		if proposal.Status != models.ProposalStatusSubmitted {
			t.Errorf("expected status submitted, got %s", proposal.Status)
		}
		if proposal.VoteCount != 0 {
			t.Errorf("expected zero votes, got %d", proposal.VoteCount)
		}
	})

	t.Run("outside_submission_phase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)

		for _, phase := range []models.CyclePhase{models.PhaseDraft, models.PhaseVetting, models.PhaseVoting, models.PhaseClosed} {
			cycle := testutil.CreateTestCycle(t, db, phase)
			_, err := svc.SubmitProposal(cycle.ID, author.ID, "Too Late", "", "", "", 250_000)
			testutil.AssertAppError(t, err, "CYCLE_NOT_IN_SUBMISSION_PHASE")
		}
	})

	t.Run("below_minimum_cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseSubmission)
		if err := db.Model(cycle).Update("min_project_cost", 500_000).Error; err != nil {
			t.Fatalf("failed to set min cost: %v", err)
		}

		_, err := svc.SubmitProposal(cycle.ID, author.ID, "Too Cheap", "", "", "", 250_000)
		testutil.AssertAppError(t, err, "PROPOSAL_COST_TOO_LOW")
	})

	t.Run("unknown_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)

		_, err := svc.SubmitProposal("00000000-0000-0000-0000-000000000000", author.ID, "Nope", "", "", "", 250_000)
		testutil.AssertAppError(t, err, "CYCLE_NOT_FOUND")
	})
}

func TestUpdateProposalStatus(t *testing.T) {
	t.Run("vetting_approval_with_technical_cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseVetting)
		proposal := testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusSubmitted, 250_000)

		_, err := svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusUnderReview, nil)
		testutil.AssertNoError(t, err)

		technical := int64(300_000)
		_, err = svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusApprovedForVoting, &technical)
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetProposalByID(proposal.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Status != models.ProposalStatusApprovedForVoting {
			t.Errorf("expected approved_for_voting, got %s", reloaded.Status)
		}
		if reloaded.TechnicalCost == nil || *reloaded.TechnicalCost != 300_000 {
			t.Errorf("expected technical cost 300000, got %v", reloaded.TechnicalCost)
		}
		if reloaded.AllocationCost() != 300_000 {
			t.Errorf("expected allocation cost to use technical figure, got %d", reloaded.AllocationCost())
		}
	})

	t.Run("illegal_transition", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseVetting)
		proposal := testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusRejected, 250_000)

		_, err := svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusApprovedForVoting, nil)
		testutil.AssertAppError(t, err, "INVALID_STATUS_TRANSITION")
	})

	t.Run("selection_is_reserved_for_finalization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseClosed)
		proposal := testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusApprovedForVoting, 250_000)

		_, err := svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusSelected, nil)
		testutil.AssertAppError(t, err, "INVALID_STATUS_TRANSITION")
	})

	t.Run("delivery_transitions_after_finalization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseClosed)
		proposal := testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusSelected, 250_000)
		if err := db.Model(cycle).Update("finalized_at", cycle.VotingEndAt).Error; err != nil {
			t.Fatalf("failed to finalize cycle: %v", err)
		}

		_, err := svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusInProgress, nil)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusCompleted, nil)
		testutil.AssertNoError(t, err)
	})

	t.Run("vetting_blocked_after_finalization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newProposalService(db)
		author := testutil.CreateTestUser(t, db)
		cycle := testutil.CreateTestCycle(t, db, models.PhaseClosed)
		proposal := testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusSubmitted, 250_000)
		if err := db.Model(cycle).Update("finalized_at", cycle.VotingEndAt).Error; err != nil {
			t.Fatalf("failed to finalize cycle: %v", err)
		}

		_, err := svc.UpdateProposalStatus(proposal.ID, models.ProposalStatusApprovedForVoting, nil)
		testutil.AssertAppError(t, err, "CYCLE_FINALIZED")
	})
}

func TestListVotable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newProposalService(db)
	author := testutil.CreateTestUser(t, db)
	cycle := testutil.CreateTestCycle(t, db, models.PhaseVoting)
	other := testutil.CreateTestCycle(t, db, models.PhaseVoting)

	votable := testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusApprovedForVoting, 100_000)
	testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusSubmitted, 100_000)
	testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusRejected, 100_000)
	testutil.CreateTestProposal(t, db, other.ID, author.ID, models.ProposalStatusApprovedForVoting, 100_000)

	proposals, err := svc.ListVotable(cycle.ID)
	testutil.AssertNoError(t, err)
	if len(proposals) != 1 {
		t.Fatalf("expected 1 votable proposal, got %d", len(proposals))
	}
	if proposals[0].ID != votable.ID {
		t.Errorf("expected proposal %s, got %s", votable.ID, proposals[0].ID)
	}
}

func TestListCycleProposals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newProposalService(db)
	author := testutil.CreateTestUser(t, db)
	cycle := testutil.CreateTestCycle(t, db, models.PhaseVoting)

	testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusSubmitted, 100_000)
	testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusApprovedForVoting, 100_000)
	testutil.CreateTestProposal(t, db, cycle.ID, author.ID, models.ProposalStatusApprovedForVoting, 100_000)

	page := pagination.PageRequest{Page: 1, PageSize: 20}

	all, err := svc.ListCycleProposals(cycle.ID, page, nil)
	testutil.AssertNoError(t, err)
	if all.TotalItems != 3 {
		t.Errorf("expected 3 proposals, got %d", all.TotalItems)
	}

	approved := models.ProposalStatusApprovedForVoting
	filtered, err := svc.ListCycleProposals(cycle.ID, page, &approved)
	testutil.AssertNoError(t, err)
	if filtered.TotalItems != 2 {
		t.Errorf("expected 2 approved proposals, got %d", filtered.TotalItems)
	}
}
