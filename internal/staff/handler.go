package staff

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

// Handler handles HTTP requests for staff management. Every endpoint is
// ADMIN-only; other roles get a 404 so user existence is not leaked.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new staff handler
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) adminOrg(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
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
	if !tenancy.IsAdmin(r.Context()) {
		http.Error(w, "not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return orgID, true
}

// Create handles POST /staff
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.adminOrg(w, r)
	if !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}
	in.Role = tenancy.ParseRole(string(in.Role))

	user, err := h.repo.Create(r.Context(), orgID, in)
	if errors.Is(err, ErrDuplicateEmail) {
		http.Error(w, "a user with this email already exists", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("failed to create staff user", "error", err, "org_id", orgID)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	h.logger.Info("staff user created", "id", user.ID, "org_id", orgID, "role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

// List handles GET /staff
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.adminOrg(w, r)
	if !ok {
		return
	}
	list, err := h.repo.List(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list staff", "error", err, "org_id", orgID)
		http.Error(w, "failed to list staff", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*User{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Update handles PUT /staff/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.adminOrg(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	role := tenancy.ParseRole(string(in.Role))

	user, err := h.repo.Update(r.Context(), orgID, id, in.Name, string(role))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update staff user", "error", err, "org_id", orgID, "user_id", id)
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Deactivate handles DELETE /staff/{id}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.adminOrg(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	err = h.repo.Deactivate(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to deactivate staff user", "error", err, "org_id", orgID, "user_id", id)
		http.Error(w, "failed to deactivate user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
