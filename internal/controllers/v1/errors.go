package v1

import (
	"errors"
	"net/http"

	"github.com/meicontrol/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Auth errors
var (
	errCredentialsInvalid = errors.New("the email address or the password is incorrect")
	errPasswordTooShort   = errors.New("the password must have at least 8 characters")
	errEmailNotSet        = errors.New("the email address must be set")
)

// Document errors
var (
	errDirectionNotSet = errors.New("the direction form field must be set to inbound or outbound")
	errEntryIDNotSet   = errors.New("the entryId parameter must be set")
)

// Report errors
var (
	errYearInvalid = errors.New("the year path parameter must be a four digit year")
)
