package handler

import (
	"encoding/json"
	"net/http"
	"vjbot/internal/api/middleware"
	"vjbot/internal/app/service"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.submit)
}

// submit blocks until the judge reaches a terminal verdict or the polling
// deadline elapses, mirroring the deferred reply the gateway shows the user.
func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	outcome, err := h.submissionService.Submit(r.Context(), &req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, outcome)
}
