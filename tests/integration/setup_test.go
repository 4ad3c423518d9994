package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"agora/internal/handlers"
	"agora/internal/logger"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/services"
	"agora/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.BudgetCycle{},
		&models.BudgetProposal{},
		&models.Vote{},
		&models.VoterBallot{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	cycleService := services.NewCycleService(db)
	proposalService := services.NewProposalService(db, cycleService)
	voteService := services.NewVoteService(db)
	allocationService := services.NewAllocationService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	cycleHandler := handlers.NewCycleHandler(cycleService, auditService)
	proposalHandler := handlers.NewProposalHandler(proposalService, auditService)
	voteHandler := handlers.NewVoteHandler(voteService, auditService)
	allocationHandler := handlers.NewAllocationHandler(allocationService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	cycles := protected.Group("/cycles")
	cycles.GET("", cycleHandler.GetCycles)
	cycles.GET("/:cycle_id", cycleHandler.GetCycle)
	cycles.GET("/:cycle_id/winners", allocationHandler.GetWinners)
	cycles.POST("/:cycle_id/proposals", proposalHandler.SubmitProposal)
	cycles.GET("/:cycle_id/proposals", proposalHandler.GetCycleProposals)
	cycles.GET("/:cycle_id/proposals/votable", proposalHandler.GetVotableProposals)
	cycles.POST("/:cycle_id/votes", voteHandler.CastVote)
	cycles.GET("/:cycle_id/votes/mine", voteHandler.GetMyVotes)
	cycles.GET("/:cycle_id/quota", voteHandler.GetQuota)

	protected.GET("/proposals/:proposal_id", proposalHandler.GetProposal)
	protected.GET("/proposals/:proposal_id/tally", voteHandler.GetTally)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/cycles", cycleHandler.CreateCycle)
	admin.PATCH("/cycles/:cycle_id/active", cycleHandler.SetCycleActive)
	admin.PATCH("/cycles/:cycle_id/windows", cycleHandler.UpdateCycleWindows)
	admin.POST("/cycles/:cycle_id/simulate", allocationHandler.Simulate)
	admin.POST("/cycles/:cycle_id/finalize", allocationHandler.Finalize)
	admin.PATCH("/proposals/:proposal_id/status", proposalHandler.UpdateProposalStatus)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertCode asserts the response body carries the given error code.
func assertCode(t *testing.T, body, code string) {
	t.Helper()
	if !strings.Contains(body, code) {
		t.Errorf("expected error code %s in response, got: %s", code, body)
	}
}

// registerUser registers a new citizen and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test Citizen"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// registerAdmin registers a user, promotes them to admin, and logs in again so
// the returned token carries the admin role.
func (app *testApp) registerAdmin(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	_, userID = app.registerUser(t, email, password)
	if err := app.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote user to admin: %v", err)
	}

	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string), userID
}
