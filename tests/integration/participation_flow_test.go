package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// windowsBody renders the four cycle timestamps relative to now. Offsets are
// in hours; negative offsets put a window in the past, which is how the test
// moves the cycle through its phases without waiting.
func windowsBody(subStart, subEnd, voteStart, voteEnd int) string {
	now := time.Now()
	f := func(h int) string { return now.Add(time.Duration(h) * time.Hour).Format(time.RFC3339) }
	return fmt.Sprintf(`"submission_start_at":%q,"submission_end_at":%q,"voting_start_at":%q,"voting_end_at":%q`,
		f(subStart), f(subEnd), f(voteStart), f(voteEnd))
}

func TestParticipationFlow_SubmitVetVoteFinalize(t *testing.T) {
	app := setupApp(t)

	adminToken, _ := app.registerAdmin(t, "clerk@city.gov", "password123")

	// Create a cycle whose submission window is open right now.
	body := fmt.Sprintf(`{
		"title": "Downtown improvements 2026",
		"total_budget_amount": 1000000,
		"min_project_cost": 100000,
		"max_votes_per_user": 3,
		%s
	}`, windowsBody(-1, 1, 2, 3))
	rec := app.request("POST", "/api/v1/admin/cycles", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cycle failed: %d %s", rec.Code, rec.Body.String())
	}
	cycleID := parseJSON(t, rec)["id"].(string)

	// A citizen token must not reach admin routes.
	citizenToken, _ := app.registerUser(t, "alice@example.com", "password123")
	rec = app.request("POST", "/api/v1/admin/cycles", body, citizenToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for citizen on admin route, got %d", rec.Code)
	}

	// Inactive cycle stays in draft: submissions are rejected.
	rec = app.request("POST", "/api/v1/cycles/"+cycleID+"/proposals",
		`{"title":"Too early","estimated_cost":200000}`, citizenToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before activation, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("PATCH", "/api/v1/admin/cycles/"+cycleID+"/active", `{"is_active":true}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate failed: %d %s", rec.Code, rec.Body.String())
	}

	// Submit four proposals.
	submit := func(title string, cost int64) string {
		rec := app.request("POST", "/api/v1/cycles/"+cycleID+"/proposals",
			fmt.Sprintf(`{"title":%q,"estimated_cost":%d}`, title, cost), citizenToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit %s failed: %d %s", title, rec.Code, rec.Body.String())
		}
		return parseJSON(t, rec)["id"].(string)
	}
	proposalA := submit("New playground", 400_000)
	proposalB := submit("Street repaving", 700_000)
	proposalC := submit("Community garden", 300_000)
	proposalD := submit("Bike racks", 400_000)

	// Below the cycle's minimum project cost.
	rec = app.request("POST", "/api/v1/cycles/"+cycleID+"/proposals",
		`{"title":"Too small","estimated_cost":50000}`, citizenToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for under-minimum cost, got %d", rec.Code)
	}

	// Vet: approve everything for voting.
	for _, id := range []string{proposalA, proposalB, proposalC, proposalD} {
		rec = app.request("PATCH", "/api/v1/admin/proposals/"+id+"/status",
			`{"status":"approved_for_voting"}`, adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("approve %s failed: %d %s", id, rec.Code, rec.Body.String())
		}
	}

	// Voting before the window opens is rejected.
	rec = app.request("POST", "/api/v1/cycles/"+cycleID+"/votes",
		fmt.Sprintf(`{"proposal_id":%q}`, proposalA), citizenToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before voting opens, got %d: %s", rec.Code, rec.Body.String())
	}

	// Move the cycle into its voting window.
	rec = app.request("PATCH", "/api/v1/admin/cycles/"+cycleID+"/windows",
		"{"+windowsBody(-3, -2, -1, 1)+"}", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reschedule into voting failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/cycles/"+cycleID, "", citizenToken)
	if phase := parseJSON(t, rec)["phase"]; phase != "voting" {
		t.Fatalf("expected voting phase, got %v", phase)
	}

	// Five voters produce tallies A=5, B=4, C=3, D=0 within a quota of 3.
	votes := map[string][]string{
		"alice@example.com": {proposalA, proposalB, proposalC},
		"bob@example.com":   {proposalA, proposalB, proposalC},
		"carol@example.com": {proposalA, proposalB, proposalC},
		"dave@example.com":  {proposalA, proposalB},
		"erin@example.com":  {proposalA},
	}
	tokens := map[string]string{"alice@example.com": citizenToken}
	for email := range votes {
		if _, ok := tokens[email]; !ok {
			tokens[email], _ = app.registerUser(t, email, "password123")
		}
	}
	for email, proposals := range votes {
		for _, id := range proposals {
			rec = app.request("POST", "/api/v1/cycles/"+cycleID+"/votes",
				fmt.Sprintf(`{"proposal_id":%q}`, id), tokens[email])
			if rec.Code != http.StatusCreated {
				t.Fatalf("vote by %s for %s failed: %d %s", email, id, rec.Code, rec.Body.String())
			}
		}
	}

	// Alice already voted for proposal A.
	rec = app.request("POST", "/api/v1/cycles/"+cycleID+"/votes",
		fmt.Sprintf(`{"proposal_id":%q}`, proposalA), citizenToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate vote, got %d", rec.Code)
	}
	assertCode(t, rec.Body.String(), "DUPLICATE_VOTE")

	// Alice used her whole quota; a vote for D must fail.
	rec = app.request("POST", "/api/v1/cycles/"+cycleID+"/votes",
		fmt.Sprintf(`{"proposal_id":%q}`, proposalD), citizenToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on quota exhaustion, got %d", rec.Code)
	}
	assertCode(t, rec.Body.String(), "QUOTA_EXCEEDED")

	rec = app.request("GET", "/api/v1/cycles/"+cycleID+"/quota", "", citizenToken)
	if remaining := parseJSON(t, rec)["remaining"]; remaining != float64(0) {
		t.Fatalf("expected 0 remaining votes, got %v", remaining)
	}

	// Finalizing while voting is open is rejected.
	rec = app.request("POST", "/api/v1/admin/cycles/"+cycleID+"/finalize", "", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 finalizing during voting, got %d", rec.Code)
	}
	assertCode(t, rec.Body.String(), "CYCLE_NOT_CLOSED")

	// Close voting.
	rec = app.request("PATCH", "/api/v1/admin/cycles/"+cycleID+"/windows",
		"{"+windowsBody(-4, -3, -2, -1)+"}", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reschedule to closed failed: %d %s", rec.Code, rec.Body.String())
	}

	// Simulation: A (400k) fits, B (700k) is skipped, C (300k) exactly
	// exhausts the rest, D no longer fits.
	rec = app.request("POST", "/api/v1/admin/cycles/"+cycleID+"/simulate", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("simulate failed: %d %s", rec.Code, rec.Body.String())
	}
	sim := parseJSON(t, rec)
	if sim["total_cost"] != float64(700_000) {
		t.Errorf("expected simulated total 700000, got %v", sim["total_cost"])
	}
	if sim["utilization_rate"] != float64(70) {
		t.Errorf("expected 70%% utilization, got %v", sim["utilization_rate"])
	}

	// Finalize and verify the committed winner set.
	rec = app.request("POST", "/api/v1/admin/cycles/"+cycleID+"/finalize",
		`{"concluding_message":"Thanks to everyone who voted."}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize failed: %d %s", rec.Code, rec.Body.String())
	}
	committed := parseJSON(t, rec)
	selected := committed["selected"].([]interface{})
	if len(selected) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(selected))
	}
	gotIDs := map[string]bool{}
	for _, s := range selected {
		gotIDs[s.(map[string]interface{})["id"].(string)] = true
	}
	if !gotIDs[proposalA] || !gotIDs[proposalC] {
		t.Errorf("expected winners A and C, got %v", gotIDs)
	}

	// A second finalize must fail without touching the committed result.
	rec = app.request("POST", "/api/v1/admin/cycles/"+cycleID+"/finalize", "", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second finalize, got %d", rec.Code)
	}
	assertCode(t, rec.Body.String(), "ALREADY_FINALIZED")

	// Winners are readable by citizens and carry the selected status.
	rec = app.request("GET", "/api/v1/cycles/"+cycleID+"/winners", "", citizenToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("winners failed: %d %s", rec.Code, rec.Body.String())
	}
	winners := parseJSON(t, rec)["winners"].([]interface{})
	if len(winners) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(winners))
	}
	for _, w := range winners {
		if status := w.(map[string]interface{})["status"]; status != "selected" {
			t.Errorf("expected selected status, got %v", status)
		}
	}

	// The finalized cycle is frozen: no more vetting, no window changes.
	rec = app.request("PATCH", "/api/v1/admin/proposals/"+proposalB+"/status",
		`{"status":"rejected"}`, adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 vetting after finalization, got %d", rec.Code)
	}
	rec = app.request("PATCH", "/api/v1/admin/cycles/"+cycleID+"/windows",
		"{"+windowsBody(-4, -3, -2, -1)+"}", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 rescheduling after finalization, got %d", rec.Code)
	}

	// Delivery transitions stay legal after finalization.
	rec = app.request("PATCH", "/api/v1/admin/proposals/"+proposalA+"/status",
		`{"status":"in_progress"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected winner to move to in_progress, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	token, userID := app.registerUser(t, "auth@test.com", "password123")
	if token == "" || userID == "" {
		t.Fatal("expected non-empty token and user ID from registration")
	}

	body := `{"email":"auth@test.com","password":"password123"}`
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	loginToken := parseJSON(t, rec)["token"].(string)

	rec = app.request("GET", "/api/v1/profile", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}

	// Wrong password and missing token are both rejected.
	rec = app.request("POST", "/api/v1/auth/login", `{"email":"auth@test.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on wrong password, got %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
