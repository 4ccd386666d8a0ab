package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/caramelohq/grooming-platform/internal/tenancy"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	scheduler *Scheduler
	repo      *Repository
	logger    *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(scheduler *Scheduler, repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{scheduler: scheduler, repo: repo, logger: logger}
}

// Create handles POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.scheduler.Create(r.Context(), orgID, in)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Update handles PATCH /appointments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.scheduler.Update(r.Context(), orgID, id, in)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Cancel handles DELETE /appointments/{id}: a soft cancel, the row stays.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	if err := h.scheduler.Cancel(r.Context(), orgID, id); err != nil {
		h.writeError(w, r, "cancel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /appointments/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	if err := h.scheduler.MarkCompleted(r.Context(), orgID, id); err != nil {
		h.writeError(w, r, "complete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pay handles POST /appointments/{id}/pay
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if err := h.scheduler.MarkPaid(r.Context(), orgID, id, body.PaymentMethod); err != nil {
		h.writeError(w, r, "pay", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := orgFromRequest(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	appt, err := h.repo.GetByID(r.Context(), orgID, id)
	if err != nil {
		h.writeError(w, r, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// List handles GET /appointments?start_date=...&end_date=... Non-admin staff
// only see their own assignments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vis, ok := tenancy.VisibilityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	var from, to *time.Time
	if startStr := r.URL.Query().Get("start_date"); startStr != "" {
		endStr := r.URL.Query().Get("end_date")
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}
		from, to = &start, &end
	}

	list, err := h.repo.ListRange(r.Context(), vis, from, to)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "org_id", vis.OrgID)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, list)
}

// History handles GET /appointments/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	vis, ok := tenancy.VisibilityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}
	list, err := h.repo.ListHistory(r.Context(), vis, limit)
	if err != nil {
		h.logger.Error("failed to list appointment history", "error", err, "org_id", vis.OrgID)
		http.Error(w, "failed to list history", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*Appointment{}
	}
	writeJSON(w, http.StatusOK, list)
}

// writeError maps domain errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid input",
			"fields": ve.Fields,
		})
	case errors.Is(err, ErrConflict):
		http.Error(w, "an appointment already occupies this time slot", http.StatusConflict)
	case errors.Is(err, ErrPetNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrServiceNotFound):
		http.Error(w, "service not found", http.StatusNotFound)
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	default:
		h.logger.Error("appointment operation failed", "operation", operation, "error", err, "path", r.URL.Path)
		http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
	}
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
