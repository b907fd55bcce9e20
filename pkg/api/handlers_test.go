package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// newTestRouter wires a handler backed by the given store into a real
// router so route precedence is exercised too.
func newTestRouter(store domain.Store) *mux.Router {
	router := mux.NewRouter()
	NewHandler(store).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_HandleInsert(t *testing.T) {
	tests := []struct {
		name           string
		collection     string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid document",
			collection:     "lessons",
			body:           map[string]interface{}{"subject": "Maths", "price": 20},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "document with existing ID",
			collection:     "lessons",
			body:           map[string]interface{}{"_id": "123", "subject": "Art"},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := NewMockStore()
			router := newTestRouter(mockStore)

			w := doJSON(t, router, "POST", "/collections/"+tt.collection, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, 1, mockStore.GetInsertCalls())
			assert.Equal(t, 1, mockStore.GetCollectionCount(tt.collection))

			var resp InsertResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.InsertedID)
		})
	}
}

func TestHandler_HandleInsertInvalidBody(t *testing.T) {
	router := newTestRouter(NewMockStore())

	req := httptest.NewRequest("POST", "/collections/lessons", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_InsertThenGetByID(t *testing.T) {
	mockStore := NewMockStore()
	router := newTestRouter(mockStore)

	w := doJSON(t, router, "POST", "/collections/lessons",
		map[string]interface{}{"subject": "Maths", "price": 20})
	require.Equal(t, http.StatusCreated, w.Code)

	var ack InsertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))

	w = doJSON(t, router, "GET", "/collections/lessons/"+ack.InsertedID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Maths", doc["subject"])
	assert.EqualValues(t, 20, doc["price"])
	assert.Equal(t, ack.InsertedID, doc["_id"])
}

func TestHandler_HandleGetByIDNotFound(t *testing.T) {
	router := newTestRouter(NewMockStore())

	w := doJSON(t, router, "GET", "/collections/lessons/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"msg":"Document not found"}`, w.Body.String())
}

func TestHandler_HandleGetByIDStoreError(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.FailWith(errors.New("invalid object id"))
	router := newTestRouter(mockStore)

	w := doJSON(t, router, "GET", "/collections/lessons/zzz", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_HandleList(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Seed("lessons",
		domain.Document{"subject": "Maths"},
		domain.Document{"subject": "English"},
	)
	router := newTestRouter(mockStore)

	w := doJSON(t, router, "GET", "/collections/lessons", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)
}

func TestHandler_HandleListEmptyCollection(t *testing.T) {
	router := newTestRouter(NewMockStore())

	w := doJSON(t, router, "GET", "/collections/nothing", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_HandleListSorted(t *testing.T) {
	mockStore := NewMockStore()
	for i, price := range []int{30, 10, 50, 20, 40} {
		mockStore.Seed("lessons", domain.Document{
			"subject": fmt.Sprintf("lesson-%d", i),
			"price":   price,
		})
	}
	router := newTestRouter(mockStore)

	w := doJSON(t, router, "GET", "/collections/lessons/3/price/desc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 3)

	prices := []float64{}
	for _, doc := range docs {
		prices = append(prices, doc["price"].(float64))
	}
	assert.Equal(t, []float64{50, 40, 30}, prices)
}

func TestHandler_HandleListSortedAscendingByDefault(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Seed("lessons",
		domain.Document{"price": 30},
		domain.Document{"price": 10},
	)
	router := newTestRouter(mockStore)

	// Anything that is not "desc" sorts ascending, malformed input included.
	w := doJSON(t, router, "GET", "/collections/lessons/5/price/garbage", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.EqualValues(t, 10, docs[0]["price"])
}

func TestHandler_HandleListSortedBadLimit(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Seed("lessons",
		domain.Document{"price": 30},
		domain.Document{"price": 10},
	)
	router := newTestRouter(mockStore)

	// Non-numeric, zero and negative limits are all rejected; zero would
	// otherwise mean "unbounded" to the store and negative values are
	// nonsense, so neither may reach it.
	for _, max := range []string{"lots", "0", "-5"} {
		t.Run("max="+max, func(t *testing.T) {
			w := doJSON(t, router, "GET", "/collections/lessons/"+max+"/price/asc", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_HandleUpdateByID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		expectedMsg string
	}{
		{name: "existing document", id: "1", expectedMsg: "success"},
		{name: "no match reports soft error", id: "999", expectedMsg: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := NewMockStore()
			mockStore.Seed("lessons", domain.Document{"subject": "Maths", "price": 20, "location": "Hendon"})
			router := newTestRouter(mockStore)

			w := doJSON(t, router, "PUT", "/collections/lessons/"+tt.id,
				map[string]interface{}{"price": 25})

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"msg":%q}`, tt.expectedMsg), w.Body.String())
		})
	}
}

func TestHandler_UpdateIsPartial(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Seed("lessons", domain.Document{"subject": "Maths", "price": 20, "location": "Hendon"})
	router := newTestRouter(mockStore)

	w := doJSON(t, router, "PUT", "/collections/lessons/1", map[string]interface{}{"price": 25})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/collections/lessons/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.EqualValues(t, 25, doc["price"])
	assert.Equal(t, "Maths", doc["subject"])
	assert.Equal(t, "Hendon", doc["location"])
}

func TestHandler_HandleDeleteByID(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.Seed("lessons", domain.Document{"subject": "Maths"})
	router := newTestRouter(mockStore)

	w := doJSON(t, router, "DELETE", "/collections/lessons/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"success"}`, w.Body.String())

	// Deleting again misses and reports the soft error.
	w = doJSON(t, router, "DELETE", "/collections/lessons/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"error"}`, w.Body.String())

	// And the document is gone.
	w = doJSON(t, router, "GET", "/collections/lessons/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_HandleHealth(t *testing.T) {
	tests := []struct {
		name           string
		ready          bool
		expectedStatus int
	}{
		{name: "store reachable", ready: true, expectedStatus: http.StatusOK},
		{name: "store not initialized", ready: false, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := NewMockStore()
			mockStore.SetReady(tt.ready)
			router := newTestRouter(mockStore)

			w := doJSON(t, router, "GET", "/health", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.ready {
				assert.JSONEq(t, `{"msg":"ok"}`, w.Body.String())
			}
		})
	}
}

func TestHandler_ConcurrentRequests(t *testing.T) {
	// Readers and writers hit the router at once; run with -race this
	// guards the mock's locking and counters.
	mockStore := NewMockStore()
	mockStore.Seed("lessons", domain.Document{"subject": "Maths", "price": 20})
	router := newTestRouter(mockStore)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				switch i % 4 {
				case 0:
					doJSON(t, router, "GET", "/collections/lessons", nil)
				case 1:
					doJSON(t, router, "GET", "/search?q=20", nil)
				case 2:
					doJSON(t, router, "POST", "/collections/lessons",
						map[string]interface{}{"subject": "Art"})
				default:
					doJSON(t, router, "GET", "/collections/lessons/5/price/desc", nil)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 40, mockStore.GetInsertCalls())
}

func TestHandler_StoreNotInitialized(t *testing.T) {
	mockStore := NewMockStore()
	mockStore.SetReady(false)
	router := newTestRouter(mockStore)

	paths := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/collections/lessons", nil},
		{"GET", "/collections/lessons/1", nil},
		{"GET", "/collections/lessons/3/price/asc", nil},
		{"POST", "/collections/lessons", map[string]interface{}{"subject": "Maths"}},
		{"PUT", "/collections/lessons/1", map[string]interface{}{"price": 1}},
		{"DELETE", "/collections/lessons/1", nil},
		{"GET", "/search?q=maths", nil},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := doJSON(t, router, p.method, p.path, p.body)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		})
	}
}
