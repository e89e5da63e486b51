package handlers

import (
	"net/http"
	"strconv"
)

const defaultHistoryLimit = 50

// HandleGetProfile handles GET /api/users/{id}
func (h *HandlerManager) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.InventorySvc.GetProfile(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleGetUserPacks handles GET /api/users/{id}/packs
func (h *HandlerManager) HandleGetUserPacks(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	packs, err := h.InventorySvc.GetUserPacks(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, packs)
}

// HandleGetUserItems handles GET /api/users/{id}/items
func (h *HandlerManager) HandleGetUserItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.InventorySvc.GetUserItems(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleGetTransactions handles GET /api/users/{id}/transactions
func (h *HandlerManager) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	history, err := h.InventorySvc.GetTransactionHistory(userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}
