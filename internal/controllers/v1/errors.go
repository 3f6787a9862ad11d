package v1

import (
	"errors"
	"net/http"

	"github.com/wedplan/backend/internal/allocation"
	"github.com/wedplan/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, allocation.ErrItemNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errScenarioIDParameter = errors.New("the scenarioId parameter must be set")
	errBatchNoExpenses     = errors.New("at least one expense ID must be specified")
)

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// Import errors
var (
	errNoFilePost          = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix     = errors.New("this endpoint only supports files of the following types")
	errNoScenarioParameter = errors.New("the scenario parameter must be set")
)
