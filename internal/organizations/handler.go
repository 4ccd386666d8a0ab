package organizations

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/tenancy"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Handler exposes the organization settings endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /organization.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	org, err := h.repo.GetByID(r.Context(), orgID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "organization not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load organization", "error", err, "org_id", orgID)
		http.Error(w, "failed to load organization", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// Update handles PUT /organization. Admin only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	if !tenancy.IsAdmin(r.Context()) {
		http.Error(w, "organization not found", http.StatusNotFound)
		return
	}

	var in UpdateSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if in.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if in.BusinessHours != nil {
		if err := in.BusinessHours.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	org, err := h.repo.Update(r.Context(), orgID, in)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "organization not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update organization", "error", err, "org_id", orgID)
		http.Error(w, "failed to update organization", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func orgFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orgIDStr, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return uuid.Nil, false
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		http.Error(w, "invalid org id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return orgID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
