package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// tokenMinter issues a signed token for a named employee.
type tokenMinter interface {
	GenerateToken(employee string) (string, error)
}

// TokenHandler serves the token endpoint. Registered only when auth is
// enabled in configuration.
type TokenHandler struct {
	minter tokenMinter
	log    *slog.Logger
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(minter tokenMinter, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{minter: minter, log: logger.With("handler", "token")}
}

type tokenRequest struct {
	Employee string `json:"employee"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Issue handles POST /api/v1/auth/token. There are no passwords: the token
// binds subsequent requests from a tablet to an employee name for the
// activity log, nothing more.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employee := strings.TrimSpace(req.Employee)
	if employee == "" {
		writeError(w, http.StatusBadRequest, "employee is required")
		return
	}

	token, err := h.minter.GenerateToken(employee)
	if err != nil {
		h.log.ErrorContext(r.Context(), "mint token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
