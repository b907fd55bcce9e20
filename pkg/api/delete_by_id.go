package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
)

// HandleDeleteByID handles DELETE requests to remove a document by ID.
// Like update, a zero-match is a soft {"msg":"error"} with HTTP 200.
func (h *Handler) HandleDeleteByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docID := vars["id"]

	deleted, err := h.store.DeleteByID(r.Context(), collName, docID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Str("id", docID).Msg("delete failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Str("id", docID).Int64("deleted", deleted).Msg("deleted document")
	if deleted == 1 {
		writeMsg(w, http.StatusOK, "success")
		return
	}
	writeMsg(w, http.StatusOK, "error")
}
