// Package handlers exposes the services over HTTP/JSON.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/middlewares"
	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/services"
	"github.com/ray-remotestate/restro-pos/utils"
)

type Handler struct {
	svc    *services.Services
	tokens *utils.TokenIssuer
	hub    *events.Hub
	loc    *time.Location
}

func New(svc *services.Services, tokens *utils.TokenIssuer, hub *events.Hub, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{svc: svc, tokens: tokens, hub: hub, loc: loc}
}

func currentActor(r *http.Request) (models.Actor, bool) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		return models.Actor{}, false
	}
	return claims.Actor(), true
}

// WithActor resolves the caller or answers 401.
func WithActor(fn func(w http.ResponseWriter, r *http.Request, actor models.Actor)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentActor(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		fn(w, r, actor)
	}
}

// respondErr maps service errors to status codes. Unknown errors are logged
// and reported with the generic notice.
func respondErr(w http.ResponseWriter, err error, notice string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		utils.RespondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(w, http.StatusForbidden, "forbidden: "+err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error(notice)
		utils.RespondError(w, http.StatusInternalServerError, notice)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.ParseBody(r, dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// location reads the viewer timezone from ?tz=, defaulting to the configured zone.
func (h *Handler) location(w http.ResponseWriter, r *http.Request) (*time.Location, bool) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		return h.loc, true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid tz")
		return nil, false
	}
	return loc, true
}

func queryInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return n, true
}

func Health(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"alive": true})
}
