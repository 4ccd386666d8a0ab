package clients

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

// Handler handles HTTP requests for clients
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new clients handler
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /clients
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

	client, err := h.repo.Create(r.Context(), orgID, in)
	if errors.Is(err, ErrDuplicatePhone) {
		http.Error(w, "a client with this phone already exists", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("failed to create client", "error", err, "org_id", orgID)
		http.Error(w, "failed to create client", http.StatusInternalServerError)
		return
	}

	h.logger.Info("client created", "id", client.ID, "org_id", orgID)
	writeJSON(w, http.StatusCreated, client)
}

// List handles GET /clients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	list, err := h.repo.List(r.Context(), orgID, strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.logger.Error("failed to list clients", "error", err, "org_id", orgID)
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Client{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /clients/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}
	client, err := h.repo.GetByID(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load client", "error", err, "org_id", orgID, "client_id", id)
		http.Error(w, "failed to load client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// Update handles PUT /clients/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
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

	client, err := h.repo.Update(r.Context(), orgID, id, in)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrDuplicatePhone) {
		http.Error(w, "a client with this phone already exists", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("failed to update client", "error", err, "org_id", orgID, "client_id", id)
		http.Error(w, "failed to update client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /clients/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}
	err = h.repo.Delete(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validate(in Input) (string, bool) {
	if strings.TrimSpace(in.Name) == "" {
		return "name is required", false
	}
	if strings.TrimSpace(in.Phone) == "" {
		return "phone is required", false
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
