package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rdavila/packstore/pkg/errors"
	"github.com/rdavila/packstore/pkg/logger"
)

// Router wires the engine's two operations plus the inventory reads.
// Catalog administration, auth and views are deliberately absent.
func (h *HandlerManager) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	mux.HandleFunc("POST /api/users", h.HandleRegister)

	mux.HandleFunc("POST /api/users/{id}/packs/{packID}/buy", h.HandleBuyPack)
	mux.HandleFunc("POST /api/users/{id}/packs/{packID}/open", h.HandleOpenPack)

	mux.HandleFunc("GET /api/users/{id}", h.HandleGetProfile)
	mux.HandleFunc("GET /api/users/{id}/packs", h.HandleGetUserPacks)
	mux.HandleFunc("GET /api/users/{id}/items", h.HandleGetUserItems)
	mux.HandleFunc("GET /api/users/{id}/transactions", h.HandleGetTransactions)

	return h.Limiter.Middleware(mux)
}

func (h *HandlerManager) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses a uint path value; ok is false after an error response
// has already been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeError(w, errors.New(errors.ErrCodeValidationFailed, "invalid "+name))
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps application error codes to HTTP statuses. Client
// correctable failures are 4xx; pool misconfiguration and store
// failures are 5xx. No fallback reward is ever returned.
func writeError(w http.ResponseWriter, err error) {
	code := errors.Code(err)

	var status int
	switch code {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInsufficientFunds:
		status = http.StatusPaymentRequired
	case errors.ErrCodeNotOwned, errors.ErrCodeAlreadyExists:
		status = http.StatusConflict
	case errors.ErrCodeEmptyPool, errors.ErrCodeExhaustedPool:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeValidation, errors.ErrCodeValidationFailed:
		status = http.StatusBadRequest
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	default:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}
	if status >= 500 {
		logger.Error("Request failed", "code", code, "error", err)
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
