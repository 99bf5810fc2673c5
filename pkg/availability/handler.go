package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/rest"
	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/billing"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// OwnerCalendar handles GET /api/calendar?month=YYYY-MM&propertyId=...
// with propertyId repeatable for a multi-property view.
func (h *Handler) OwnerCalendar(w http.ResponseWriter, r *http.Request) {
	month, err := utils.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month format", "'month' must be in YYYY-MM format")
		return
	}

	rawIDs := r.URL.Query()["propertyId"]
	if len(rawIDs) == 0 {
		rest.WriteError(w, http.StatusBadRequest, "Missing propertyId", "at least one 'propertyId' is required")
		return
	}
	propertyIDs := make([]int64, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
			return
		}
		propertyIDs = append(propertyIDs, id)
	}

	calendars, err := h.service.OwnerCalendar(r.Context(), propertyIDs, month)
	if err != nil {
		var entErr *billing.EntitlementError
		if errors.As(err, &entErr) {
			rest.WriteError(w, http.StatusForbidden, "Subscription limit reached", entErr.Error())
			return
		}
		log.Errorf("failed to resolve owner calendar: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// JSON object keys must be strings.
	response := make(map[string]map[string]DayStatus, len(calendars))
	for propertyID, days := range calendars {
		response[strconv.FormatInt(propertyID, 10)] = days
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// PublicCalendar handles GET /api/property/{propertyId}/public-availability?month=YYYY-MM.
func (h *Handler) PublicCalendar(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(mux.Vars(r)["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}
	month, err := utils.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month format", "'month' must be in YYYY-MM format")
		return
	}

	days, err := h.service.PublicCalendar(r.Context(), propertyID, month)
	if err != nil {
		log.Errorf("failed to resolve public calendar: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(days); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
