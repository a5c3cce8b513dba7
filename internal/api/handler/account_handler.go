package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"vjbot/internal/api/middleware"
	"vjbot/internal/app/service"
	"vjbot/internal/common"

	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	accountService     *service.AccountService
	leaderboardService *service.LeaderboardService
}

func NewAccountHandler(as *service.AccountService, ls *service.LeaderboardService) *AccountHandler {
	return &AccountHandler{accountService: as, leaderboardService: ls}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/{userID}/credentials", h.linkCredential)
	r.Delete("/{userID}/credentials/{judge}", h.unlinkCredential)
	r.Get("/{userID}/solves", h.listSolves)
}

func (h *AccountHandler) linkCredential(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req service.LinkCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.accountService.LinkCredential(r.Context(), userID, req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}

func (h *AccountHandler) unlinkCredential(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	judgeName := chi.URLParam(r, "judge")

	if err := h.accountService.UnlinkCredential(r.Context(), userID, judgeName); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

func (h *AccountHandler) listSolves(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	judgeName := r.URL.Query().Get("judge")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.leaderboardService.SolvesForUser(r.Context(), userID, judgeName, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, records)
}
