package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// HandleSearch handles GET /search?q= over the lessons collection. An
// empty query degenerates to listing every lesson; result order is
// whatever the store returns.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	docs, err := h.store.Search(r.Context(), q)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("q", q).Msg("search failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("q", q).Int("count", len(docs)).Msg("search complete")
	writeJSON(w, docs)
}
