package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stayhub/stayhub/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Availability calendars
	r.HandleFunc("/api/calendar", deps.AvailabilityHandler.OwnerCalendar).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/public-availability", deps.AvailabilityHandler.PublicCalendar).Queries("month", "{month}").Methods("GET")

	// Reservations
	r.HandleFunc("/api/property/{propertyId}/reservation", deps.ReservationHandler.List).Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/reservation", deps.ReservationHandler.Create).Methods("POST")
	r.HandleFunc("/api/reservation/{reservationId}", deps.ReservationHandler.Update).Methods("PUT")
	r.HandleFunc("/api/reservation/{reservationId}/status", deps.ReservationHandler.SetStatus).Methods("PATCH")
	r.HandleFunc("/api/reservation/{reservationId}", deps.ReservationHandler.Delete).Methods("DELETE")

	// Locked dates
	r.HandleFunc("/api/property/{propertyId}/lock", deps.LockedDateHandler.List).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/lock", deps.LockedDateHandler.Create).Methods("POST")
	r.HandleFunc("/api/property/{propertyId}/lock/{lockId}", deps.LockedDateHandler.Delete).Methods("DELETE")

	// iCal subscriptions and import
	r.HandleFunc("/api/property/{propertyId}/ical-subscription", deps.SyncHandler.List).Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/ical-subscription", deps.SyncHandler.Create).Methods("POST")
	r.HandleFunc("/api/property/{propertyId}/ical-subscription/{subscriptionId}", deps.SyncHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/property/{propertyId}/ical-subscription/{subscriptionId}/sync", deps.SyncHandler.TriggerSync).Methods("POST")

	// iCal export feed tokens
	r.HandleFunc("/api/property/{propertyId}/feed-token", deps.FeedHandler.EnableToken).Methods("POST")
	r.HandleFunc("/api/property/{propertyId}/feed-token", deps.FeedHandler.GetToken).Methods("GET")
	r.HandleFunc("/api/property/{propertyId}/feed-token", deps.FeedHandler.RevokeToken).Methods("DELETE")

	// Public feed: token is the only credential, no user header expected
	r.HandleFunc("/feed/{token:[0-9a-f]+}.ics", deps.FeedHandler.Feed).Methods("GET")

	// Reports
	r.HandleFunc("/api/report/export", deps.ReportHandler.Export).Queries("months", "{months}").Methods("GET")

	// Health
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
}
