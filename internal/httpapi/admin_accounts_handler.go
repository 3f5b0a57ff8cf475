package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/middleware"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleAdminLogin exchanges operator credentials for a session token.
func (d *Dependencies) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	admin, err := d.Admins.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		d.Logger.Error("Admin lookup failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !admin.IsActive || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, exp, err := auth.GenerateAdminJWT(admin.Email, string(admin.Role), d.AdminSecret)
	if err != nil {
		d.Logger.Error("Failed to generate admin token", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"exp":   exp,
		"role":  admin.Role,
	})
}

type adminCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// handleAdminAccounts manages operator accounts: list and create. Only
// super admins reach this handler (enforced by middleware).
func (d *Dependencies) handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.listAdmins(w, r)
	case http.MethodPost:
		d.createAdmin(w, r)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// adminView strips the password hash from list responses.
type adminView struct {
	Email     string           `json:"email"`
	Role      models.AdminRole `json:"role"`
	IsActive  bool             `json:"isActive"`
	CreatedAt string           `json:"createdAt"`
	CreatedBy string           `json:"createdBy"`
}

func (d *Dependencies) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := d.Admins.List(r.Context())
	if err != nil {
		d.Logger.Error("Failed to list admins", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	views := make([]adminView, 0, len(admins))
	for _, a := range admins {
		views = append(views, adminView{
			Email:     a.Email,
			Role:      a.Role,
			IsActive:  a.IsActive,
			CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			CreatedBy: a.CreatedBy,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, views)
}

func (d *Dependencies) createAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	role := models.AdminRole(req.Role)
	if role == "" {
		role = models.AdminRoleUser
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		d.Logger.Error("Failed to hash password", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	createdBy := "system"
	if claims, ok := middleware.AdminClaimsFrom(r.Context()); ok {
		createdBy = claims.Email
	}

	admin := &models.AdminUser{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	if err := d.Admins.Create(r.Context(), admin); err != nil {
		d.Logger.Error("Failed to create admin", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Admin created successfully",
	})
}

type adminStatusRequest struct {
	Email    string `json:"email"`
	IsActive *bool  `json:"isActive"`
}

// handleAdminAccountStatus enables or disables an operator account. A
// disabled account keeps its row but can no longer log in.
func (d *Dependencies) handleAdminAccountStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req adminStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.IsActive == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and isActive required")
		return
	}

	// An operator cannot disable their own account.
	if claims, ok := middleware.AdminClaimsFrom(r.Context()); ok && !*req.IsActive && claims.Email == req.Email {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot deactivate your own account")
		return
	}

	if err := d.Admins.SetActive(r.Context(), req.Email, *req.IsActive); err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Admin not found")
			return
		}
		d.Logger.Error("Failed to update admin status", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}
