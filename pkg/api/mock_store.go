package api

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/danharrold/lessons-api/pkg/domain"
)

// MockStore provides an in-memory implementation of domain.Store for testing
type MockStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Document
	ready       bool
	err         error

	// Counters are atomic so read-path methods can bump them under RLock.
	insertCalls atomic.Int64
	findCalls   atomic.Int64
	searchCalls atomic.Int64
}

// NewMockStore creates a mock store that is ready and never fails
func NewMockStore() *MockStore {
	return &MockStore{
		collections: make(map[string][]domain.Document),
		ready:       true,
	}
}

// SetReady toggles the not-initialized condition
func (m *MockStore) SetReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
}

// FailWith makes every subsequent call return err
func (m *MockStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Seed inserts documents without counting them as calls
func (m *MockStore) Seed(coll string, docs ...domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		m.collections[coll] = append(m.collections[coll], m.withID(coll, doc))
	}
}

func (m *MockStore) check() error {
	if !m.ready {
		return domain.ErrNotInitialized
	}
	return m.err
}

// withID assigns a sequential string id when the document has none,
// stringifying numeric ids for consistency. Callers hold the lock.
func (m *MockStore) withID(coll string, doc domain.Document) domain.Document {
	out := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	if _, exists := out["_id"]; !exists {
		out["_id"] = fmt.Sprintf("%d", len(m.collections[coll])+1)
	} else {
		out["_id"] = idString(out["_id"])
	}
	return out
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (m *MockStore) Insert(_ context.Context, coll string, doc domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls.Add(1)
	if err := m.check(); err != nil {
		return "", err
	}

	stored := m.withID(coll, doc)
	m.collections[coll] = append(m.collections[coll], stored)
	return stored["_id"].(string), nil
}

func (m *MockStore) FindAll(_ context.Context, coll string) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.findCalls.Add(1)
	if err := m.check(); err != nil {
		return nil, err
	}

	return append([]domain.Document{}, m.collections[coll]...), nil
}

func (m *MockStore) FindSorted(_ context.Context, coll, sortField string, descending bool, limit int64) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.findCalls.Add(1)
	if err := m.check(); err != nil {
		return nil, err
	}

	docs := append([]domain.Document{}, m.collections[coll]...)
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessByField(docs[i][sortField], docs[j][sortField])
		if descending {
			return !less && !valuesEqual(docs[i][sortField], docs[j][sortField])
		}
		return less
	})

	if int64(len(docs)) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *MockStore) GetByID(_ context.Context, coll, id string) (domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.findCalls.Add(1)
	if err := m.check(); err != nil {
		return nil, err
	}

	for _, doc := range m.collections[coll] {
		if idString(doc["_id"]) == id {
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockStore) UpdateByID(_ context.Context, coll, id string, fields domain.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(); err != nil {
		return 0, err
	}

	for _, doc := range m.collections[coll] {
		if idString(doc["_id"]) == id {
			for k, v := range fields {
				doc[k] = v
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockStore) DeleteByID(_ context.Context, coll, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(); err != nil {
		return 0, err
	}

	docs := m.collections[coll]
	for i, doc := range docs {
		if idString(doc["_id"]) == id {
			m.collections[coll] = append(docs[:i:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockStore) Search(_ context.Context, q string) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.searchCalls.Add(1)
	if err := m.check(); err != nil {
		return nil, err
	}

	lessons := m.collections[domain.LessonsCollection]
	if q == "" {
		return append([]domain.Document{}, lessons...), nil
	}

	results := []domain.Document{}
	for _, doc := range lessons {
		if matchesQuery(doc, q) {
			results = append(results, doc)
		}
	}
	return results, nil
}

func (m *MockStore) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.check()
}

// GetInsertCalls returns how many inserts were attempted
func (m *MockStore) GetInsertCalls() int {
	return int(m.insertCalls.Load())
}

// GetCollectionCount returns the number of documents in a collection
func (m *MockStore) GetCollectionCount(coll string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[coll])
}

// matchesQuery mirrors the search semantics: case-insensitive substring on
// the text fields, exact numeric equality on price/availablespaces.
func matchesQuery(doc domain.Document, q string) bool {
	for _, field := range []string{"subject", "description", "location"} {
		if s, ok := doc[field].(string); ok &&
			strings.Contains(strings.ToLower(s), strings.ToLower(q)) {
			return true
		}
	}

	n, err := strconv.ParseFloat(q, 64)
	if err != nil {
		return false
	}
	for _, field := range []string{"price", "availablespaces"} {
		if v, ok := toFloat64(doc[field]); ok && v == n {
			return true
		}
	}
	return false
}

func lessByField(a, b interface{}) bool {
	if af, ok1 := toFloat64(a); ok1 {
		if bf, ok2 := toFloat64(b); ok2 {
			return af < bf
		}
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func valuesEqual(a, b interface{}) bool {
	if af, ok1 := toFloat64(a); ok1 {
		if bf, ok2 := toFloat64(b); ok2 {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
