package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// HandleUpdateByID handles PUT requests to merge fields onto a document.
// Only the fields present in the body are touched; a zero-match reports a
// soft {"msg":"error"} with HTTP 200 rather than a 404.
func (h *Handler) HandleUpdateByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docID := vars["id"]

	var fields domain.Document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("collection", collName).Msg("decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	matched, err := h.store.UpdateByID(r.Context(), collName, docID, fields)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Str("id", docID).Msg("update failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Str("id", docID).Int64("matched", matched).Msg("updated document")
	if matched == 1 {
		writeMsg(w, http.StatusOK, "success")
		return
	}
	writeMsg(w, http.StatusOK, "error")
}
