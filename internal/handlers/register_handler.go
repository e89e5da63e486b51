package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rdavila/packstore/pkg/errors"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /api/users
func (h *HandlerManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeValidationFailed, "invalid request body"))
		return
	}

	profile, err := h.UserSvc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}
