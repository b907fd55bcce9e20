package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// InsertResponse acknowledges an insert with the id the store assigned
type InsertResponse struct {
	InsertedID string `json:"insertedId"`
}

// HandleInsert handles POST requests to insert a document into a collection.
// The body is stored verbatim; no field validation is performed.
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("collection", collName).Msg("decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.store.Insert(r.Context(), collName, doc)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Msg("insert failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Str("id", id).Msg("inserted document")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(InsertResponse{InsertedID: id})
}
