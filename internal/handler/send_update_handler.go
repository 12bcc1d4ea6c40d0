// internal/handler/send_update_handler.go
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/outreach-scheduler/internal/queue"
)

const maxUpdateBody = 1 << 20

// SendUpdateHandler receives backend push notifications about scheduled
// sends and hands them to the update bus.
type SendUpdateHandler struct {
	Bus queue.Queue
	Log *zap.Logger
}

// NewSendUpdateHandler creates a new SendUpdateHandler publishing to bus
func NewSendUpdateHandler(bus queue.Queue, log *zap.Logger) *SendUpdateHandler {
	return &SendUpdateHandler{Bus: bus, Log: log}
}

// ServeHTTP accepts a single delta object or an array of them.
func (h *SendUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBody))
	if err != nil {
		http.Error(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	deltas, err := queue.DecodeDeltas(body)
	if err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	for _, d := range deltas {
		if err := h.Bus.Publish(queue.TopicSendUpdates, d); err != nil {
			h.Log.Error("failed to publish update", zap.String("send_id", d.ID), zap.Error(err))
			http.Error(w, "failed to enqueue update: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	h.Log.Debug("updates accepted", zap.Int("count", len(deltas)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{"accepted": len(deltas)})
}
