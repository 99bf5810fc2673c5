package icalsync

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/rest"
)

type Handler struct {
	service Service
}

type SubscriptionDTO struct {
	ID               int64   `json:"id"`
	PropertyID       int64   `json:"propertyId"`
	FeedURL          string  `json:"feedUrl"`
	SourceName       string  `json:"sourceName"`
	LastSyncedAt     *string `json:"lastSyncedAt,omitempty"`
	LastSyncStatus   string  `json:"lastSyncStatus"`
	LastErrorMessage *string `json:"lastErrorMessage,omitempty"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(mux.Vars(r)["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}

	subs, err := h.service.ListSubscriptions(r.Context(), propertyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		dtos = append(dtos, toDTO(sub))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(mux.Vars(r)["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}

	var dto SubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.service.CreateSubscription(r.Context(), Subscription{
		PropertyID: propertyID,
		FeedURL:    dto.FeedURL,
		SourceName: SourceName(dto.SourceName),
	})
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid subscription", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(sub)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	propertyID, err := strconv.ParseInt(vars["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}
	id, err := strconv.ParseInt(vars["subscriptionId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid subscription id", "")
		return
	}

	if err := h.service.RemoveSubscription(r.Context(), propertyID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Subscription not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TriggerSync handles POST .../sync, called by the external scheduler and
// on subscription creation. The response is the subscription record with
// its resulting sync status; a failed run is a 202 with status "error",
// not an HTTP error.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["subscriptionId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid subscription id", "")
		return
	}

	sub, err := h.service.Sync(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			rest.WriteError(w, http.StatusNotFound, "Subscription not found", "")
		case errors.Is(err, ErrInactive):
			rest.WriteError(w, http.StatusConflict, "Subscription is inactive", "")
		case errors.Is(err, ErrSyncInProgress):
			rest.WriteError(w, http.StatusConflict, "Sync already in progress", "")
		default:
			log.Errorf("sync trigger failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(toDTO(sub)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(sub Subscription) SubscriptionDTO {
	dto := SubscriptionDTO{
		ID:               sub.ID,
		PropertyID:       sub.PropertyID,
		FeedURL:          sub.FeedURL,
		SourceName:       string(sub.SourceName),
		LastSyncStatus:   string(sub.LastSyncStatus),
		LastErrorMessage: sub.LastErrorMessage,
	}
	if sub.LastSyncedAt != nil {
		syncedAt := sub.LastSyncedAt.Format(time.RFC3339)
		dto.LastSyncedAt = &syncedAt
	}
	return dto
}
