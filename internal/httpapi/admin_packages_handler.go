package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

type packageRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Credits     *int64   `json:"credits"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// handleAdminPackages manages credit packages: list, create/update, delete.
func (d *Dependencies) handleAdminPackages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.listPackages(w, r)
	case http.MethodPost:
		d.savePackage(w, r)
	case http.MethodDelete:
		d.deletePackage(w, r)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (d *Dependencies) listPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := d.Packages.List(r.Context())
	if err != nil {
		d.Logger.Error("Failed to list packages", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, packages)
}

func (d *Dependencies) savePackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Price == nil || req.Credits == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if *req.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}
	if *req.Credits <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Credits must be positive")
		return
	}

	pkg := &models.CreditPackage{
		Name:        req.Name,
		Price:       *req.Price,
		Credits:     *req.Credits,
		Description: req.Description,
		Features:    req.Features,
	}
	if pkg.Features == nil {
		pkg.Features = []string{}
	}

	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid package ID")
			return
		}
		pkg.ID = id
		if err := d.Packages.Update(r.Context(), pkg); err != nil {
			if errors.Is(err, storage.ErrPackageNotFound) {
				utils.RespondWithError(w, http.StatusNotFound, "Package not found")
				return
			}
			d.Logger.Error("Failed to update package", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "id": pkg.ID})
		return
	}

	id, err := d.Packages.Create(r.Context(), pkg)
	if err != nil {
		d.Logger.Error("Failed to create package", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (d *Dependencies) deletePackage(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing ID")
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid package ID")
		return
	}

	if err := d.Packages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrPackageNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Package not found")
			return
		}
		d.Logger.Error("Failed to delete package", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}
