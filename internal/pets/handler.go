package pets

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

// Handler handles HTTP requests for pets
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a new pets handler
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /pets
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
	if msg, ok := validate(&in); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	pet, err := h.repo.Create(r.Context(), orgID, in)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to create pet", "error", err, "org_id", orgID)
		http.Error(w, "failed to create pet", http.StatusInternalServerError)
		return
	}
	h.logger.Info("pet created", "id", pet.ID, "org_id", orgID, "size", pet.Size)
	writeJSON(w, http.StatusCreated, pet)
}

// List handles GET /pets and GET /pets?client_id=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}

	var (
		list []*Pet
		err  error
	)
	if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
		clientID, parseErr := uuid.Parse(clientIDStr)
		if parseErr != nil {
			http.Error(w, "invalid client id", http.StatusBadRequest)
			return
		}
		list, err = h.repo.ListByClient(r.Context(), orgID, clientID)
	} else {
		list, err = h.repo.List(r.Context(), orgID)
	}
	if err != nil {
		h.logger.Error("failed to list pets", "error", err, "org_id", orgID)
		http.Error(w, "failed to list pets", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Pet{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /pets/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}
	pet, err := h.repo.GetByID(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load pet", "error", err, "org_id", orgID, "pet_id", id)
		http.Error(w, "failed to load pet", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// Update handles PUT /pets/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg, ok := validate(&in); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	pet, err := h.repo.Update(r.Context(), orgID, id, in)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update pet", "error", err, "org_id", orgID, "pet_id", id)
		http.Error(w, "failed to update pet", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// Delete handles DELETE /pets/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return
	}
	err = h.repo.Delete(r.Context(), orgID, id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validate fills enum defaults and rejects malformed input.
func validate(in *Input) (string, bool) {
	if strings.TrimSpace(in.Name) == "" {
		return "name is required", false
	}
	if in.ClientID == uuid.Nil {
		return "client_id is required", false
	}
	if in.Species == "" {
		in.Species = SpeciesDog
	}
	if !in.Species.Valid() {
		return "invalid species", false
	}
	if in.Size == "" {
		in.Size = SizeMedium
	}
	if !in.Size.Valid() {
		return "invalid size", false
	}
	if in.WeightKg != nil && *in.WeightKg < 0 {
		return "weight must not be negative", false
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
