package icalfeed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stayhub/stayhub/internal/rest"
)

type Handler struct {
	service Service
}

type FeedTokenDTO struct {
	PropertyID int64  `json:"propertyId"`
	Token      string `json:"token"`
	URL        string `json:"url"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Feed handles GET /feed/{token}.ics. Malformed, revoked, and unknown
// tokens all produce the same 404 so the endpoint leaks nothing.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	document, err := h.service.Feed(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Errorf("failed to render feed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		log.Errorf("failed to write feed response: %v", err)
	}
}

func (h *Handler) EnableToken(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(mux.Vars(r)["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}

	token, err := h.service.EnsureToken(r.Context(), propertyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeToken(w, http.StatusCreated, token)
}

func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(mux.Vars(r)["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}

	token, err := h.service.CurrentToken(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			rest.WriteError(w, http.StatusNotFound, "No active feed token", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeToken(w, http.StatusOK, token)
}

func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(mux.Vars(r)["propertyId"], 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid property id", "")
		return
	}

	if err := h.service.Revoke(r.Context(), propertyID); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			rest.WriteError(w, http.StatusNotFound, "No active feed token", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeToken(w http.ResponseWriter, status int, token FeedToken) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	dto := FeedTokenDTO{
		PropertyID: token.PropertyID,
		Token:      token.Token,
		URL:        "/feed/" + token.Token + ".ics",
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
