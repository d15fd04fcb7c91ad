package submissions

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codearena-2026.net/internal/core/ports/primary"
	"gitlab.com/codearena-2026.net/internal/core/services/grading"
	"gitlab.com/codearena-2026.net/internal/core/services/submission"
	"gitlab.com/codearena-2026.net/internal/domain"
	"gitlab.com/codearena-2026.net/internal/handlers/response"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	gradingService    grading.IGradingService
	submissionService submission.ISubmissionService
	logger            primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	gradingService grading.IGradingService,
	submissionService submission.ISubmissionService,
	logger primary.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		gradingService:    gradingService,
		submissionService: submissionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/submissions/execute", h.Execute).Methods("POST")
	router.HandleFunc("/api/submissions", h.Create).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}", h.Get).Methods("GET")
	router.HandleFunc("/api/languages", h.GetLanguages).Methods("GET")
}

// Execute handles synchronous grading requests. The grading contract
// never fails, so the endpoint always answers 200 with a verdict once
// the request decodes; malformed code shows up as a RuntimeError
// verdict, not an HTTP error.
func (h *SubmissionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}
	if err := req.validate(); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest})
		return
	}

	language, tests, opts := req.toDomain()
	sub := domain.NewSubmission(req.Code, language, tests, opts)

	result := h.gradingService.Grade(r.Context(), sub)

	response.WriteSuccess(w, ExecuteResponse{
		SubmissionID: sub.ID,
		Result:       result,
	})
}

// Create handles asynchronous submission requests
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}
	if err := req.validate(); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest})
		return
	}

	language, tests, opts := req.toDomain()
	id, err := h.submissionService.Enqueue(r.Context(), req.Code, language, tests, opts)
	if err != nil {
		h.logger.Error("Failed to enqueue submission", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: err.Error(), StatusCode: http.StatusUnprocessableEntity})
		return
	}

	response.WriteJSON(w, http.StatusAccepted, SubmitResponse{SubmissionID: id})
}

// Get handles submission lookup requests
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["submissionId"]

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Error("Invalid submission ID", "id", idStr)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid submission ID", StatusCode: http.StatusBadRequest})
		return
	}

	sub, result, err := h.submissionService.GetSubmission(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to get submission", StatusCode: http.StatusInternalServerError})
		return
	}
	if sub == nil {
		response.WriteError(w, response.ErrorMessage{Message: "Submission not found", StatusCode: http.StatusNotFound})
		return
	}

	response.WriteSuccess(w, SubmissionStatusResponse{
		SubmissionID: sub.ID,
		State:        sub.State,
		Result:       result,
	})
}

// GetLanguages handles supported language listing requests
func (h *SubmissionHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string][]domain.Language{"languages": domain.SupportedLanguages()})
}
