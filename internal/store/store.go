// Package store defines the document-store capability consumed by the
// repositories: point reads, filtered/ordered/limited queries and atomic
// read-modify-write transactions. The real driver is an external
// collaborator; this package fixes only the contract, plus an in-memory
// engine used by tests and local development (see memstore.go).
package store

import (
	"context"
	"errors"
)

// ErrNotFound indicates that a document does not exist in the collection.
// Repositories translate it into domain-level error codes.
var ErrNotFound = errors.New("document not found")

// Document is a stored record: the store-assigned ID plus its fields.
// Field values are restricted to what the engine can compare and copy:
// nil, bool, string, int, int64, float64, time.Time, map[string]any and
// []any of the same.
type Document struct {
	ID   string
	Data map[string]any
}

// Op is a comparison operator accepted by Query filters.
type Op string

const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
)

// Direction orders query results on a field.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter restricts query results to documents whose field satisfies the
// comparison. Documents missing the field never match.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Order sorts query results on a field. Documents missing the field are
// excluded from the result set entirely, mirroring how document stores
// treat orderBy on sparse fields. The document ID ascending is always the
// final implicit tie-break, so any ordered query yields a total order.
type Order struct {
	Field     string
	Direction Direction
}

// Query describes a filtered, ordered, limited read over one collection.
// It is a value type built fluently; each builder method returns a copy.
type Query struct {
	Collection string
	Filters    []Filter
	Orders     []Order
	// StartAfterValues holds one value per Order entry plus a trailing
	// document ID. Results begin strictly after that tuple in sort order.
	StartAfterValues []any
	// LimitCount caps the result size; zero means unlimited.
	LimitCount int
}

// NewQuery starts a query over the named collection.
func NewQuery(collection string) Query {
	return Query{Collection: collection}
}

// Where appends a filter condition.
func (q Query) Where(field string, op Op, value any) Query {
	f := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(f, q.Filters)
	q.Filters = append(f, Filter{Field: field, Op: op, Value: value})
	return q
}

// OrderBy appends an ordering field.
func (q Query) OrderBy(field string, dir Direction) Query {
	o := make([]Order, len(q.Orders), len(q.Orders)+1)
	copy(o, q.Orders)
	q.Orders = append(o, Order{Field: field, Direction: dir})
	return q
}

// StartAfter positions the query strictly after the given tuple. The tuple
// must carry one value per OrderBy field followed by a document ID.
func (q Query) StartAfter(values ...any) Query {
	q.StartAfterValues = values
	return q
}

// Limit caps the number of returned documents.
func (q Query) Limit(n int) Query {
	q.LimitCount = n
	return q
}

// Tx is the handle passed to a transaction body. Writes are staged and
// applied atomically when the body returns nil; any error discards them.
// ServerTimestamp values in staged writes resolve to the single commit
// time of the transaction.
type Tx interface {
	// Get reads a document inside the transaction. Returns ErrNotFound
	// when absent.
	Get(collection, id string) (Document, error)
	// Create stages a new document with a store-assigned ID and returns
	// that ID immediately.
	Create(collection string, data map[string]any) string
	// Set stages a full overwrite of the document.
	Set(collection, id string, data map[string]any)
	// Update stages a field merge into an existing document. The
	// transaction fails with ErrNotFound at commit when the document does
	// not exist.
	Update(collection, id string, fields map[string]any)
	// Delete stages removal of the document.
	Delete(collection, id string)
}

// Store is the document-store capability. Implementations must make
// RunTransaction atomic: either every staged write applies or none does.
// Conflict detection and transparent retry are the implementation's
// responsibility; callers keep transaction bodies idempotent and free of
// side effects outside the store.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	// Add creates a document with a store-assigned ID outside any
	// transaction and returns the ID.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Run(ctx context.Context, q Query) ([]Document, error)
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}
