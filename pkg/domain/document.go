package domain

// Document represents a schema-less document stored in a collection.
// Values may be strings, numbers, booleans, arrays or nested maps; the
// store assigns the "_id" field on insert when the caller omits it.
type Document map[string]interface{}

// Collections with a fixed role. Every other collection name is taken
// verbatim from the request path and looked up lazily on each call.
const (
	OrdersCollection  = "orders"
	LessonsCollection = "lessons"
)
