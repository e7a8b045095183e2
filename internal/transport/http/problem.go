package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/light-bringer/catalog-listing/internal/app/listing/domain"
	"github.com/light-bringer/catalog-listing/internal/app/listing/params"
)

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeBadRequest  = "/problems/bad-request"
	ProblemTypeNotFound    = "/problems/not-found"
	ProblemTypeUpstream    = "/problems/upstream-failure"
	ProblemTypeTimeout     = "/problems/upstream-timeout"
	ProblemTypeUnavailable = "/problems/catalog-unavailable"
	ProblemTypeInternal    = "/problems/internal-error"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// problemFor maps an engine or parameter error to a response. Internal
// error text is not exposed.
func problemFor(err error) Problem {
	var fetchErr *domain.FetchError
	switch {
	case errors.Is(err, params.ErrInvalidParameter):
		return Problem{Type: ProblemTypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest, Detail: err.Error()}
	case errors.As(err, &fetchErr) && errors.Is(err, context.DeadlineExceeded):
		return Problem{Type: ProblemTypeTimeout, Title: "Gateway Timeout", Status: http.StatusGatewayTimeout,
			Detail: "catalog backend did not answer in time", RequestID: fetchErr.RequestID}
	case errors.As(err, &fetchErr):
		return Problem{Type: ProblemTypeUpstream, Title: "Bad Gateway", Status: http.StatusBadGateway,
			Detail: "catalog backend query failed", RequestID: fetchErr.RequestID}
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return Problem{Type: ProblemTypeUnavailable, Title: "Service Unavailable", Status: http.StatusServiceUnavailable,
			Detail: "catalog is unavailable"}
	default:
		return Problem{Type: ProblemTypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
	}
}
