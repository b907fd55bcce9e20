package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
)

// HandleListSorted handles GET requests for a sorted, limited listing:
// /collections/{coll}/{max}/{sortField}/{dir}. Any direction other than
// "desc" sorts ascending; a non-numeric max is rejected outright.
func (h *Handler) HandleListSorted(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	// A zero limit would mean "unbounded" to the store, so it is rejected
	// along with negative and non-numeric input.
	max, err := strconv.ParseInt(vars["max"], 10, 64)
	if err != nil || max <= 0 {
		hlog.FromRequest(r).Warn().Str("max", vars["max"]).Msg("invalid limit")
		WriteJSONError(w, http.StatusBadRequest, "limit must be a positive base-10 integer")
		return
	}

	sortField := vars["sortField"]
	descending := vars["dir"] == "desc"

	docs, err := h.store.FindSorted(r.Context(), collName, sortField, descending, max)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("collection", collName).Msg("sorted list failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().
		Str("collection", collName).
		Str("sort_field", sortField).
		Bool("descending", descending).
		Int64("limit", max).
		Int("count", len(docs)).
		Msg("listed sorted documents")
	writeJSON(w, docs)
}
