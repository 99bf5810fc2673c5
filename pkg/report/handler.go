package report

import (
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/rest"
	"github.com/stayhub/stayhub/internal/utils"
)

type Handler struct {
	service  Service
	renderer Renderer
}

func NewHandler(service Service, renderer Renderer) *Handler {
	return &Handler{service, renderer}
}

// Export handles GET /api/report/export?months=2026-01,2026-02&type=both.
// Months the entitlement gate refused are listed in the
// X-Entitlement-Denied-Months header; when no month is accessible the
// request fails with 403 so the caller can prompt an upgrade.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonths(r.URL.Query().Get("months"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid months selection", "'months' must be a comma-separated list of YYYY-MM values")
		return
	}

	filter := TypeFilter(r.URL.Query().Get("type"))
	if filter == "" {
		filter = FilterBoth
	}
	if !filter.Valid() {
		rest.WriteError(w, http.StatusBadRequest, "Invalid type filter", "'type' must be income, expense, or both")
		return
	}

	result, err := h.service.Export(r.Context(), months, filter)
	if err != nil {
		log.Errorf("report export failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.DeniedMonths) > 0 {
		w.Header().Set("X-Entitlement-Denied-Months", formatMonths(result.DeniedMonths))
	}
	if len(result.Months) == 0 {
		rest.WriteError(w, http.StatusForbidden, "Subscription limit reached",
			"none of the selected months are within the subscription window")
		return
	}

	csvData, err := h.renderer.RenderEntries(result.Entries)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvData)); err != nil {
		log.Errorf("failed to write csv response: %v", err)
	}
}

func parseMonths(raw string) ([]time.Time, error) {
	parts := strings.Split(raw, ",")
	months := make([]time.Time, 0, len(parts))
	for _, part := range parts {
		month, err := utils.ParseMonth(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, nil
}

func formatMonths(months []time.Time) string {
	formatted := make([]string, 0, len(months))
	for _, month := range months {
		formatted = append(formatted, month.Format(utils.MonthLayout))
	}
	return strings.Join(formatted, ",")
}
