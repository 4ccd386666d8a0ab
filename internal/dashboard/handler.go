package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/caramelohq/grooming-platform/internal/tenancy"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Handler serves the dashboard payload.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Get handles GET /dashboard. An optional date=YYYY-MM-DD query moves the
// reference day; it defaults to today.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vis, ok := tenancy.VisibilityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	ref := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			http.Error(w, "invalid date, use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		ref = parsed
	}

	stats, err := h.service.GetStats(r.Context(), vis, ref)
	if err != nil {
		h.logger.Error("failed to compute dashboard stats", "error", err, "org_id", vis.OrgID)
		http.Error(w, "failed to compute dashboard stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(stats)
}
