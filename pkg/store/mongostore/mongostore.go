package mongostore

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/danharrold/lessons-api/pkg/config"
	"github.com/danharrold/lessons-api/pkg/domain"
	"github.com/danharrold/lessons-api/pkg/metrics"
)

// Store implements domain.Store on top of a single shared mongo.Client.
// The client is established once by Connect, usually in the background;
// until the first successful ping every operation fails fast with
// domain.ErrNotInitialized instead of touching a nil handle.
type Store struct {
	settings *config.Settings

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	ready  atomic.Bool
}

// New creates a Store that is not yet connected.
func New(settings *config.Settings) *Store {
	return &Store{settings: settings}
}

// Connect dials the database, verifies it with a ping and marks the store
// ready. Safe to call from a goroutine at startup.
func (s *Store) Connect(ctx context.Context) error {
	// Nested documents should decode as bson.M rather than the default
	// bson.D so they round-trip through encoding/json cleanly.
	registry := bson.NewRegistry()
	registry.RegisterTypeMapEntry(bson.TypeEmbeddedDocument, reflect.TypeOf(bson.M{}))

	opts := options.Client().
		ApplyURI(s.settings.MongoURI()).
		SetConnectTimeout(s.settings.MongoConnectTimeout).
		SetRegistry(registry)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "pinging mongodb")
	}

	s.mu.Lock()
	s.client = client
	s.db = client.Database(s.settings.MongoDatabase)
	s.mu.Unlock()
	s.ready.Store(true)

	return nil
}

// Disconnect tears down the shared client.
func (s *Store) Disconnect(ctx context.Context) error {
	s.ready.Store(false)

	s.mu.Lock()
	client := s.client
	s.client = nil
	s.db = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	return errors.Wrap(client.Disconnect(ctx), "disconnecting from mongodb")
}

// collection resolves a collection handle, failing fast when the store has
// not finished connecting. Collections are never validated or cached.
func (s *Store) collection(name string) (*mongo.Collection, error) {
	if !s.ready.Load() {
		return nil, domain.ErrNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Collection(name), nil
}

func (s *Store) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.settings.MongoQueryTimeout)
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if !s.ready.Load() {
		return domain.ErrNotInitialized
	}

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return errors.Wrap(client.Ping(ctx, readpref.Primary()), "pinging mongodb")
}

// Insert stores the document verbatim and returns the assigned id.
func (s *Store) Insert(ctx context.Context, coll string, doc domain.Document) (string, error) {
	c, err := s.collection(coll)
	if err != nil {
		return "", err
	}
	defer metrics.ObserveOp("insert", time.Now())

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	res, err := c.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrapf(err, "inserting document into collection '%s'", coll)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmtID(res.InsertedID), nil
}

// FindAll returns every document in the collection, empty slice included.
func (s *Store) FindAll(ctx context.Context, coll string) ([]domain.Document, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveOp("find_all", time.Now())

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	cursor, err := c.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrapf(err, "finding documents in collection '%s'", coll)
	}

	docs := []domain.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrapf(err, "decoding documents from collection '%s'", coll)
	}
	return docs, nil
}

// FindSorted returns at most limit documents ordered by sortField. No
// check is made that the field exists on any document.
func (s *Store) FindSorted(ctx context.Context, coll, sortField string, descending bool, limit int64) ([]domain.Document, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveOp("find_sorted", time.Now())

	order := 1
	if descending {
		order = -1
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	cursor, err := c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetLimit(limit))
	if err != nil {
		return nil, errors.Wrapf(err, "finding sorted documents in collection '%s'", coll)
	}

	docs := []domain.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrapf(err, "decoding documents from collection '%s'", coll)
	}
	return docs, nil
}

// GetByID fetches one document by its ObjectID hex. A malformed id is a
// plain error so callers can tell it apart from a miss.
func (s *Store) GetByID(ctx context.Context, coll, id string) (domain.Document, error) {
	c, err := s.collection(coll)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveOp("get_by_id", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing document id '%s'", id)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	doc := domain.Document{}
	err = c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching document '%s' from collection '%s'", id, coll)
	}
	return doc, nil
}

// UpdateByID $sets the given fields on one document and reports how many
// matched. Fields absent from the update are left untouched.
func (s *Store) UpdateByID(ctx context.Context, coll, id string, fields domain.Document) (int64, error) {
	c, err := s.collection(coll)
	if err != nil {
		return 0, err
	}
	defer metrics.ObserveOp("update_by_id", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing document id '%s'", id)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	res, err := c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return 0, errors.Wrapf(err, "updating document '%s' in collection '%s'", id, coll)
	}
	return res.MatchedCount, nil
}

// DeleteByID removes one document and reports how many were removed.
func (s *Store) DeleteByID(ctx context.Context, coll, id string) (int64, error) {
	c, err := s.collection(coll)
	if err != nil {
		return 0, err
	}
	defer metrics.ObserveOp("delete_by_id", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing document id '%s'", id)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	res, err := c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, errors.Wrapf(err, "deleting document '%s' from collection '%s'", id, coll)
	}
	return res.DeletedCount, nil
}

// Search queries the lessons collection with the disjunctive filter built
// by searchFilter.
func (s *Store) Search(ctx context.Context, q string) ([]domain.Document, error) {
	c, err := s.collection(domain.LessonsCollection)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveOp("search", time.Now())

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	cursor, err := c.Find(ctx, searchFilter(q))
	if err != nil {
		return nil, errors.Wrapf(err, "searching lessons for '%s'", q)
	}

	docs := []domain.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding lesson search results")
	}
	return docs, nil
}

// fmtID renders a caller-supplied _id (anything that is not an ObjectID).
func fmtID(id interface{}) string {
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", id)
}
