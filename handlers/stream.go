package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/utils"
)

const keepAliveInterval = 25 * time.Second

// Stream sends the caller's business change events as Server-Sent Events
// until the client goes away.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request, actor models.Actor) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// The server write timeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	ch, cancel := h.hub.Subscribe(actor.BusinessID)
	defer cancel()
	logrus.WithFields(logrus.Fields{
		"business_id": actor.BusinessID,
		"subscribers": h.hub.Subscribers(actor.BusinessID),
	}).Debug("event stream opened")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logrus.WithError(err).Warn("failed to encode event")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Collection, data)
			flusher.Flush()
		}
	}
}
