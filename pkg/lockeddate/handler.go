package lockeddate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/rest"
	"github.com/stayhub/stayhub/internal/utils"
)

type Handler struct {
	service Service
}

type LockedDateDTO struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"propertyId"`
	Day        string `json:"day"`
	Reason     string `json:"reason,omitempty"`
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
	from, err := utils.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from (date) format", "'from' must be in YYYY-MM-DD format")
		return
	}
	to, err := utils.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to (date) format", "'to' must be in YYYY-MM-DD format")
		return
	}

	locks, err := h.service.ListForProperty(r.Context(), propertyID, from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]LockedDateDTO, 0, len(locks))
	for _, lock := range locks {
		dtos = append(dtos, toDTO(lock))
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

	var dto LockedDateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	day, err := utils.ParseDate(dto.Day)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid day format", "'day' must be in YYYY-MM-DD format")
		return
	}

	lock, err := h.service.Lock(r.Context(), propertyID, day, dto.Reason)
	if err != nil {
		if errors.Is(err, ErrAlreadyLocked) {
			rest.WriteError(w, http.StatusConflict, "Date is already locked", "")
			return
		}
		log.Errorf("failed to lock date: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(lock)); err != nil {
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
	id, err := strconv.ParseInt(vars["lockId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid lock id", "")
		return
	}

	if err := h.service.Unlock(r.Context(), propertyID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Locked date not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(lock LockedDate) LockedDateDTO {
	return LockedDateDTO{
		ID:         lock.ID,
		PropertyID: lock.PropertyID,
		Day:        lock.Day.Format(utils.DateLayout),
		Reason:     lock.Reason,
	}
}
