package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router.
// Registration order matters: mux matches in order, so the fixed-path
// order and snapshot routes must come before the generic patterns that
// would otherwise swallow them.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Order creation targets the fixed "orders" collection
	router.HandleFunc("/collections/orders", h.HandleCreateOrder).Methods("POST")

	// Collection operations
	router.HandleFunc("/collections/{coll}", h.HandleInsert).Methods("POST")
	router.HandleFunc("/collections/{coll}", h.HandleList).Methods("GET")

	// Snapshot transfer
	router.HandleFunc("/collections/{coll}/export", h.HandleExport).Methods("GET")
	router.HandleFunc("/collections/{coll}/import", h.HandleImport).Methods("POST")

	// Document operations (by ID)
	router.HandleFunc("/collections/{coll}/{id}", h.HandleGetByID).Methods("GET")
	router.HandleFunc("/collections/{coll}/{id}", h.HandleUpdateByID).Methods("PUT") // Field-level merge
	router.HandleFunc("/collections/{coll}/{id}", h.HandleDeleteByID).Methods("DELETE")

	// Sorted, limited listing
	router.HandleFunc("/collections/{coll}/{max}/{sortField}/{dir}", h.HandleListSorted).Methods("GET")

	// Lesson search
	router.HandleFunc("/search", h.HandleSearch).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
}
