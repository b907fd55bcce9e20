package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
)

// HandleList handles GET requests to list every document in a collection
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	docs, err := h.store.FindAll(r.Context(), collName)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Msg("list failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Int("count", len(docs)).Msg("listed documents")
	writeJSON(w, docs)
}
