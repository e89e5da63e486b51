package handlers

import (
	"net/http"

	"github.com/rdavila/packstore/pkg/errors"
)

// HandleBuyPack handles POST /api/users/{id}/packs/{packID}/buy
func (h *HandlerManager) HandleBuyPack(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	packID, ok := pathID(w, r, "packID")
	if !ok {
		return
	}

	if !h.Limiter.CheckUserLimit(userID) {
		writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
		return
	}

	receipt, err := h.PackSvc.BuyPack(userID, packID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// HandleOpenPack handles POST /api/users/{id}/packs/{packID}/open
func (h *HandlerManager) HandleOpenPack(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	packID, ok := pathID(w, r, "packID")
	if !ok {
		return
	}

	if !h.Limiter.CheckUserLimit(userID) {
		writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
		return
	}

	result, err := h.PackSvc.OpenPack(userID, packID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
