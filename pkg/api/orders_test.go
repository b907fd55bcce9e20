package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danharrold/lessons-api/pkg/domain"
)

func validOrder() map[string]interface{} {
	return map[string]interface{}{
		"name":      "A",
		"email":     "a@b.com",
		"address":   "1 High Street",
		"city":      "London",
		"postcode":  "NW4 4BT",
		"phone":     "02081234567",
		"lessonIDs": []interface{}{1, 2},
	}
}

func TestHandler_HandleCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(map[string]interface{})
		expectedStatus int
	}{
		{
			name:           "complete order",
			mutate:         func(map[string]interface{}) {},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			mutate:         func(o map[string]interface{}) { delete(o, "name") },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing email",
			mutate:         func(o map[string]interface{}) { delete(o, "email") },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing address and phone",
			mutate: func(o map[string]interface{}) {
				delete(o, "address")
				delete(o, "phone")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing lessonIDs",
			mutate:         func(o map[string]interface{}) { delete(o, "lessonIDs") },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "lessonIDs not an array",
			mutate:         func(o map[string]interface{}) { o["lessonIDs"] = "1,2" },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty name",
			mutate:         func(o map[string]interface{}) { o["name"] = "" },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := NewMockStore()
			router := newTestRouter(mockStore)

			order := validOrder()
			tt.mutate(order)

			w := doJSON(t, router, "POST", "/collections/orders", order)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var resp InsertResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.InsertedID)
				assert.Equal(t, 1, mockStore.GetCollectionCount(domain.OrdersCollection))
			} else {
				assert.Zero(t, mockStore.GetCollectionCount(domain.OrdersCollection))
			}
		})
	}
}

func TestHandler_CreateOrderIgnoresUnknownLessons(t *testing.T) {
	// Referential integrity against the lessons collection is out of
	// scope; an order for lessons that do not exist is still accepted.
	mockStore := NewMockStore()
	router := newTestRouter(mockStore)

	order := validOrder()
	order["lessonIDs"] = []interface{}{9991, 9992}

	w := doJSON(t, router, "POST", "/collections/orders", order)
	assert.Equal(t, http.StatusCreated, w.Code)
}
