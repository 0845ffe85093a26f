package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/services"
)

// AskRequest for POST ask body.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the generated SQL and its result rows. Empty is
// true when the query ran but matched nothing.
type AskResponse struct {
	SQL      string           `json:"sql"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Empty    bool             `json:"empty"`
}

// AssistantHandler handles natural-language questions over the trip data.
type AssistantHandler struct {
	assistantService services.AssistantService
	logger           *zap.Logger
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistantService services.AssistantService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		logger:           logger,
	}
}

// RegisterRoutes registers the assistant handler's routes on the given mux.
func (h *AssistantHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assistant/ask", h.Ask)
}

// Ask handles POST /api/assistant/ask requests.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	result, err := h.assistantService.Ask(r.Context(), req.Question)
	if err != nil {
		h.logger.Warn("Question not answered",
			zap.String("question", req.Question),
			zap.Error(err))
		_ = writeServiceError(w, err)
		return
	}

	response := AskResponse{
		SQL:      result.SQL,
		Columns:  result.Result.Columns,
		Rows:     result.Result.Rows,
		RowCount: result.Result.RowCount(),
		Empty:    result.Empty,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ask response", zap.Error(err))
	}
}
