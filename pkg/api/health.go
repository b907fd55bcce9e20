package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// HandleHealth handles GET requests to the health check endpoint. Reports
// 503 until the store connection established at startup is confirmed.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
		WriteJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeMsg(w, http.StatusOK, "ok")
}
