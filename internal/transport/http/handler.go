package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/params"
)

// ListingHandler serves listing and facet requests. It is stateless: every
// request carries its whole filter state in the query string.
type ListingHandler struct {
	engine contracts.ListingEngine
	logger *zap.Logger
}

// NewListingHandler creates a handler over engine.
func NewListingHandler(engine contracts.ListingEngine, logger *zap.Logger) *ListingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingHandler{engine: engine, logger: logger}
}

// Listing handles GET /api/v1/listing.
func (h *ListingHandler) Listing(w http.ResponseWriter, r *http.Request) {
	req, err := params.ParseListingRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	modes := h.engine.SortModes()
	params.SupportedSort(req, modes)

	res, err := h.engine.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if res.FacetsUnavailable {
		w.Header().Set("Warning", `199 - "facets unavailable"`)
	}
	writeJSON(w, http.StatusOK, params.NewListingResponse(res, modes))
}

// Facets handles GET /api/v1/facets. Only the search query scopes facets.
func (h *ListingHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.engine.Facets(r.Context(), r.URL.Query().Get(params.Search))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

func (h *ListingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err)
	p.Instance = r.URL.Path
	if p.RequestID == "" {
		p.RequestID = middleware.GetReqID(r.Context())
	}
	if p.Status >= http.StatusInternalServerError {
		h.logger.Error("listing request failed",
			zap.String("request_id", p.RequestID),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteProblem(w, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
