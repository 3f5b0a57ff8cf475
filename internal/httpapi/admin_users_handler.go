package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// handleAdminListUsers returns every billing profile.
func (d *Dependencies) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	users, err := d.Users.List(r.Context())
	if err != nil {
		d.Logger.Error("Failed to list users", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

type adminUserUpdateRequest struct {
	UID           string              `json:"uid"`
	AccountType   *models.AccountType `json:"account_type,omitempty"`
	CreditBalance *int64              `json:"credit_balance,omitempty"`
}

// handleAdminUpdateUser applies operator corrections to a billing profile.
// The balance here is an absolute overwrite, unlike the engine's atomic
// deltas; manual corrections set a target value.
func (d *Dependencies) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req adminUserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.UID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User ID required")
		return
	}

	update := storage.AdminUpdate{
		AccountType:   req.AccountType,
		CreditBalance: req.CreditBalance,
	}
	if err := d.Users.ApplyAdminUpdate(r.Context(), req.UID, update); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		d.Logger.Error("Failed to update user", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}
