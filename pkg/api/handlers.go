package api

import (
	"github.com/danharrold/lessons-api/pkg/domain"
)

// Handler provides the HTTP handlers for the collection API
type Handler struct {
	store domain.Store
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(store domain.Store) *Handler {
	return &Handler{
		store: store,
	}
}
