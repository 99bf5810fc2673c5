package reservation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/rest"
	"github.com/stayhub/stayhub/internal/utils"
)

type Handler struct {
	service Service
}

type ReservationDTO struct {
	ID         int64  `json:"id"`
	UID        string `json:"uid"`
	PropertyID int64  `json:"propertyId"`
	GuestName  string `json:"guestName"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Status     string `json:"status"`
	Source     string `json:"source"`
}

type statusDTO struct {
	Status string `json:"status"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "propertyId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}
	from, to, err := rangeParams(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date range", "'from' and 'to' must be in YYYY-MM-DD format")
		return
	}

	reservations, err := h.service.ListForProperty(r.Context(), propertyID, from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ReservationDTO, 0, len(reservations))
	for _, res := range reservations {
		dtos = append(dtos, toDTO(res))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "propertyId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}

	var dto ReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := fromDTO(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid reservation", err.Error())
		return
	}
	res.PropertyID = propertyID

	created, err := h.service.Create(r.Context(), res)
	if err != nil {
		writeReservationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reservationId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid reservation id", "")
		return
	}

	var dto ReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := fromDTO(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid reservation", err.Error())
		return
	}
	res.ID = id

	updated, err := h.service.Modify(r.Context(), res)
	if err != nil {
		writeReservationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reservationId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid reservation id", "")
		return
	}

	var dto statusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Transition(r.Context(), id, Status(dto.Status)); err != nil {
		writeReservationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reservationId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid reservation id", "")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeReservationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeReservationError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &validationErr):
		rest.WriteError(w, http.StatusBadRequest, "Invalid reservation", validationErr.Reason)
	case errors.As(err, &conflictErr):
		rest.WriteError(w, http.StatusConflict, "Booking conflict", conflictErr.Error())
	case errors.Is(err, ErrNotFound):
		rest.WriteError(w, http.StatusNotFound, "Reservation not found", "")
	default:
		log.Errorf("reservation request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(res Reservation) ReservationDTO {
	return ReservationDTO{
		ID:         res.ID,
		UID:        res.UID.String(),
		PropertyID: res.PropertyID,
		GuestName:  res.GuestName,
		CheckIn:    res.CheckIn.Format(utils.DateLayout),
		CheckOut:   res.CheckOut.Format(utils.DateLayout),
		Status:     string(res.Status),
		Source:     string(res.Source),
	}
}

func fromDTO(dto ReservationDTO) (Reservation, error) {
	checkIn, err := utils.ParseDate(dto.CheckIn)
	if err != nil {
		return Reservation{}, errors.New("checkIn must be in YYYY-MM-DD format")
	}
	checkOut, err := utils.ParseDate(dto.CheckOut)
	if err != nil {
		return Reservation{}, errors.New("checkOut must be in YYYY-MM-DD format")
	}
	return Reservation{
		ID:        dto.ID,
		GuestName: dto.GuestName,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Status:    Status(dto.Status),
		Source:    Source(dto.Source),
	}, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func rangeParams(r *http.Request) (time.Time, time.Time, error) {
	from, err := utils.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := utils.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
