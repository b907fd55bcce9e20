package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// HandleGetByID handles GET requests to retrieve a specific document by ID
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docID := vars["id"]

	doc, err := h.store.GetByID(r.Context(), collName, docID)
	if errors.Is(err, domain.ErrNotFound) {
		hlog.FromRequest(r).Info().Str("collection", collName).Str("id", docID).Msg("document not found")
		writeMsg(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		// Covers malformed ids as well; those are a caller error but are
		// surfaced as a generic failure, never as a miss.
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Str("id", docID).Msg("get failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Str("id", docID).Msg("retrieved document")
	writeJSON(w, doc)
}
