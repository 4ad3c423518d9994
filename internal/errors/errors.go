// Package errors provides custom error types for the Agora API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Cycle errors.
var (
	ErrCycleNotFound      = &AppError{Code: "CYCLE_NOT_FOUND", Message: "Budget cycle not found", StatusCode: http.StatusNotFound}
	ErrCycleFinalized     = &AppError{Code: "CYCLE_FINALIZED", Message: "Cycle is finalized and can no longer be modified", StatusCode: http.StatusConflict}
	ErrInvalidCycleWindow = &AppError{Code: "INVALID_CYCLE_WINDOW", Message: "Cycle time windows are inconsistent", StatusCode: http.StatusBadRequest}
)

// Proposal errors.
var (
	ErrProposalNotFound          = &AppError{Code: "PROPOSAL_NOT_FOUND", Message: "Proposal not found", StatusCode: http.StatusNotFound}
	ErrCycleNotInSubmissionPhase = &AppError{Code: "CYCLE_NOT_IN_SUBMISSION_PHASE", Message: "Proposals can only be submitted while the submission window is open", StatusCode: http.StatusConflict}
	ErrProposalCostTooLow        = &AppError{Code: "PROPOSAL_COST_TOO_LOW", Message: "Estimated cost is below the cycle's minimum project cost", StatusCode: http.StatusBadRequest}
	ErrInvalidStatusTransition   = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "Proposal cannot move to the requested status", StatusCode: http.StatusConflict}
)

// Vote errors. These are expected, user-facing outcomes: no mutation has
// occurred and the code names the exact precondition that failed.
var (
	ErrCycleNotInVotingPhase = &AppError{Code: "CYCLE_NOT_IN_VOTING_PHASE", Message: "Votes can only be cast while the voting window is open", StatusCode: http.StatusConflict}
	ErrProposalNotVotable    = &AppError{Code: "PROPOSAL_NOT_VOTABLE", Message: "Proposal is not approved for voting", StatusCode: http.StatusConflict}
	ErrDuplicateVote         = &AppError{Code: "DUPLICATE_VOTE", Message: "You have already voted for this proposal", StatusCode: http.StatusConflict}
	ErrQuotaExceeded         = &AppError{Code: "QUOTA_EXCEEDED", Message: "You have used all of your votes for this cycle", StatusCode: http.StatusConflict}
)

// Allocation & finalization errors.
var (
	ErrInvalidBudgetOverride = &AppError{Code: "INVALID_BUDGET_OVERRIDE", Message: "Simulation budget must not be negative", StatusCode: http.StatusBadRequest}
	ErrCycleNotClosed        = &AppError{Code: "CYCLE_NOT_CLOSED", Message: "Cycle can only be finalized after voting has closed", StatusCode: http.StatusConflict}
	ErrAlreadyFinalized      = &AppError{Code: "ALREADY_FINALIZED", Message: "Cycle has already been finalized", StatusCode: http.StatusConflict}
	ErrCycleNotFinalized     = &AppError{Code: "CYCLE_NOT_FINALIZED", Message: "Cycle has not been finalized yet", StatusCode: http.StatusConflict}
)
