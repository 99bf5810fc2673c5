package icalfeed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, *ServiceImpl) {
	service := NewService(NewRepositoryStub(), reservation.NewRepositoryStub(), lockeddate.NewRepositoryStub())
	handler := NewHandler(service)

	r := mux.NewRouter()
	r.HandleFunc("/feed/{token:[0-9a-f]+}.ics", handler.Feed).Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/feed-token", handler.EnableToken).Methods("POST")
	r.HandleFunc("/api/property/{propertyId}/feed-token", handler.GetToken).Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/feed-token", handler.RevokeToken).Methods("DELETE")
	return r, service
}

func TestHandler_Feed(t *testing.T) {
	t.Run("should serve the calendar for a valid token", func(t *testing.T) {
		router, service := setupRouter(t)
		token, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/"+token.Token+".ics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	})

	t.Run("should answer 404 for unknown, revoked, and malformed tokens alike", func(t *testing.T) {
		router, service := setupRouter(t)
		token, err := service.EnsureToken(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, service.Revoke(ctx, 1))

		paths := []string{
			"/feed/" + token.Token + ".ics", // revoked
			"/feed/0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef.ics", // unknown
			"/feed/not-a-token.ics", // malformed, rejected by the route pattern
			"/feed/.ics",
		}
		for _, path := range paths {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		}
	})
}

func TestHandler_TokenLifecycle(t *testing.T) {
	router, _ := setupRouter(t)

	// no token yet
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/property/1/feed-token", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// enable
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/property/1/feed-token", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":"/feed/`)

	// read back
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/property/1/feed-token", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// revoke
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/property/1/feed-token", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/property/1/feed-token", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
