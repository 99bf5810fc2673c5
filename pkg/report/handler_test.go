package report

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerRouter(t *testing.T) (*mux.Router, *RepositoryStub) {
	service, repo := setupReport(t)
	handler := NewHandler(service, NewCsvRenderer())

	r := mux.NewRouter()
	r.HandleFunc("/api/report/export", handler.Export).Methods("GET")
	return r, repo
}

func exportRequest(t *testing.T, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/report/export?"+query, nil)
	return req.WithContext(ctx)
}

func TestHandler_Export(t *testing.T) {
	t.Run("should return csv with denied months in a header", func(t *testing.T) {
		router, repo := setupHandlerRouter(t)
		repo.AddEntry(1, entry(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), TypeIncome, 1200))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, exportRequest(t, "months=2026-03,2026-08&type=both"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "2026-08", rec.Header().Get("X-Entitlement-Denied-Months"))
		assert.Contains(t, rec.Body.String(), "2026-03-10,income")
	})

	t.Run("should answer 403 when every month is denied", func(t *testing.T) {
		router, _ := setupHandlerRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, exportRequest(t, "months=2026-08,2026-09"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "2026-08,2026-09", rec.Header().Get("X-Entitlement-Denied-Months"))
	})

	t.Run("should default the filter to both", func(t *testing.T) {
		router, repo := setupHandlerRouter(t)
		repo.AddEntry(1, entry(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), TypeIncome, 500))
		repo.AddEntry(1, entry(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), TypeExpense, 100))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, exportRequest(t, "months=2026-03"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "income")
		assert.Contains(t, rec.Body.String(), "expense")
	})

	t.Run("should reject malformed months", func(t *testing.T) {
		router, _ := setupHandlerRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, exportRequest(t, "months=march"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an unknown type filter", func(t *testing.T) {
		router, _ := setupHandlerRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, exportRequest(t, "months=2026-03&type=refunds"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
