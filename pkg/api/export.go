package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/danharrold/lessons-api/pkg/snapshot"
)

// ImportResponse acknowledges a snapshot import
type ImportResponse struct {
	Collection string `json:"collection"`
	Imported   int    `json:"imported"`
}

// HandleExport handles GET requests to download a collection snapshot
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	docs, err := h.store.FindAll(r.Context(), collName)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Msg("export failed")
		WriteStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s%s", collName, snapshot.FileExtension))

	if err := snapshot.Encode(w, collName, docs); err != nil {
		// Headers are already gone; all we can do is log.
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Msg("snapshot encoding failed")
		return
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Int("count", len(docs)).Msg("exported collection")
}

// HandleImport handles POST requests to restore documents from a snapshot
// body. Documents are inserted one by one into the collection named in the
// URL; the name recorded inside the snapshot is informational only.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	_, docs, err := snapshot.Decode(r.Body)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("collection", collName).Msg("invalid snapshot")
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	for i, doc := range docs {
		if _, err := h.store.Insert(r.Context(), collName, doc); err != nil {
			hlog.FromRequest(r).Error().Err(err).
				Str("collection", collName).
				Int("imported", i).
				Msg("import aborted")
			WriteStoreError(w, err)
			return
		}
	}

	hlog.FromRequest(r).Info().Str("collection", collName).Int("count", len(docs)).Msg("imported collection")
	writeJSON(w, ImportResponse{Collection: collName, Imported: len(docs)})
}
