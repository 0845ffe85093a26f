package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/services"
)

// SearchRequest for POST search body.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchResponse wraps the match list.
type SearchResponse struct {
	Query   string               `json:"query"`
	Matches []models.SearchMatch `json:"matches"`
}

// RebuildResponse reports how many reasons were indexed.
type RebuildResponse struct {
	Indexed int `json:"indexed"`
}

// ExamplesResponse wraps example trips for one reason.
type ExamplesResponse struct {
	Reason string        `json:"reason"`
	Trips  []models.Trip `json:"trips"`
}

// SearchHandler handles semantic search over cancellation reasons.
type SearchHandler struct {
	searchService  services.SearchService
	indexerService services.IndexerService
	defaultTopK    int
	defaultLimit   int
	logger         *zap.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(
	searchService services.SearchService,
	indexerService services.IndexerService,
	defaultTopK int,
	defaultLimit int,
	logger *zap.Logger,
) *SearchHandler {
	return &SearchHandler{
		searchService:  searchService,
		indexerService: indexerService,
		defaultTopK:    defaultTopK,
		defaultLimit:   defaultLimit,
		logger:         logger,
	}
}

// RegisterRoutes registers the search handler's routes on the given mux.
func (h *SearchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/search", h.Search)
	mux.HandleFunc("POST /api/search/index/rebuild", h.Rebuild)
	mux.HandleFunc("GET /api/search/examples", h.Examples)
}

// Search handles POST /api/search requests.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = h.defaultTopK
	}

	matches, err := h.searchService.Search(r.Context(), req.Query, topK)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err))
		_ = writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, SearchResponse{Query: req.Query, Matches: matches}); err != nil {
		h.logger.Error("Failed to encode search response", zap.Error(err))
	}
}

// Rebuild handles POST /api/search/index/rebuild requests. The rebuild
// runs synchronously; the response reports the indexed reason count.
func (h *SearchHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	indexed, err := h.indexerService.Rebuild(r.Context())
	if err != nil {
		h.logger.Error("Index rebuild failed", zap.Error(err), zap.Int("indexed", indexed))
		_ = writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, RebuildResponse{Indexed: indexed}); err != nil {
		h.logger.Error("Failed to encode rebuild response", zap.Error(err))
	}
}

// Examples handles GET /api/search/examples?reason=...&limit=N requests.
func (h *SearchHandler) Examples(w http.ResponseWriter, r *http.Request) {
	reason := r.URL.Query().Get("reason")
	if strings.TrimSpace(reason) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "reason is required")
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	trips, err := h.searchService.ExamplesFor(r.Context(), reason, limit)
	if err != nil {
		h.logger.Error("Examples lookup failed", zap.Error(err))
		_ = writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ExamplesResponse{Reason: reason, Trips: trips}); err != nil {
		h.logger.Error("Failed to encode examples response", zap.Error(err))
	}
}
