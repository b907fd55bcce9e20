package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// HandleCreateOrder handles POST requests to place an order. The required
// fields are checked for presence; whether the referenced lessons exist,
// or still have spaces left, is not.
func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Document
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("decoding order failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := domain.ValidateOrder(order); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("order rejected")
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.store.Insert(r.Context(), domain.OrdersCollection, order)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("order insert failed")
		WriteStoreError(w, err)
		return
	}

	hlog.FromRequest(r).Info().Str("id", id).Msg("created order")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(InsertResponse{InsertedID: id})
}
