package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/tenancy"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Handler handles HTTP requests for the service catalog
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg, ok := validate(in); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Create(r.Context(), orgID, in)
	if err != nil {
		h.logger.Error("failed to create service", "error", err, "org_id", orgID)
		http.Error(w, "failed to create service", http.StatusInternalServerError)
		return
	}
	h.logger.Info("service created", "id", svc.ID, "org_id", orgID, "name", svc.Name)
	writeJSON(w, http.StatusCreated, svc)
}

// List handles GET /services (?active=true narrows to bookable services)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	list, err := h.repo.List(r.Context(), orgID, activeOnly)
	if err != nil {
		h.logger.Error("failed to list services", "error", err, "org_id", orgID)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Service{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid service id", http.StatusBadRequest)
		return
	}
	svc, err := h.repo.GetByID(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load service", "error", err, "org_id", orgID, "service_id", id)
		http.Error(w, "failed to load service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Update handles PUT /services/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid service id", http.StatusBadRequest)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg, ok := validate(in); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	svc, err := h.repo.Update(r.Context(), orgID, id, in)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update service", "error", err, "org_id", orgID, "service_id", id)
		http.Error(w, "failed to update service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Deactivate handles DELETE /services/{id}. Soft: history keeps the row.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid service id", http.StatusBadRequest)
		return
	}
	err = h.repo.Deactivate(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to deactivate service", "error", err, "org_id", orgID, "service_id", id)
		http.Error(w, "failed to deactivate service", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validate(in Input) (string, bool) {
	if strings.TrimSpace(in.Name) == "" {
		return "name is required", false
	}
	for _, p := range []*int64{in.Prices.Mini, in.Prices.Small, in.Prices.Medium, in.Prices.Large, in.Prices.Giant} {
		if p != nil && *p < 0 {
			return "prices must not be negative", false
		}
	}
	for _, d := range []int{in.Durations.Mini, in.Durations.Small, in.Durations.Medium, in.Durations.Large, in.Durations.Giant} {
		if d < 0 {
			return "durations must not be negative", false
		}
	}
	return "", true
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
