package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/mnp/taskmatch/internal/types"
)

// HTTPStatus maps domain errors to HTTP status codes. Validation problems
// are the caller's fault, integrity problems mean stored data is unusable,
// and dependency failures mean a backing service is down.
func HTTPStatus(err error) int {
	var validationErr *types.ValidationError
	var integrityErr *types.DataIntegrityError
	var dependencyErr *types.DependencyUnavailableError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &integrityErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &dependencyErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes a JSON error with the status derived from the error
// type.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
