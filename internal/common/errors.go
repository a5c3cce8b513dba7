package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")

	// Submission lifecycle failures. All of these reach the dispatcher as a
	// typed outcome, never as a silent drop.
	ErrBusy               = errors.New("a submission is already in flight for this user")
	ErrCredentialRejected = errors.New("judge rejected the stored credential")
	ErrInvalidProblem     = errors.New("judge rejected the problem id")
	ErrUploadFailed       = errors.New("failed to upload submission to judge")
	ErrJudgeTimeout       = errors.New("judging did not complete in time")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrCredentialRejected) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidProblem) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrBusy) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrUploadFailed) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrJudgeTimeout) {
		return http.StatusGatewayTimeout
	}

	// Unique constraint violations from Postgres surface as conflicts.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
