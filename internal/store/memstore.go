package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is a thread-safe in-memory document store. Transactions are
// serialized under a single mutex, which trivially satisfies the atomicity
// and isolation the Store contract asks for; the production driver swaps
// in behind the same interface.
type MemStore struct {
	mu    sync.RWMutex
	data  map[string]map[string]map[string]any // collection -> id -> fields
	clock Clock
}

// NewMemStore builds an empty store. A nil clock falls back to UTC wall
// time; tests inject a fixed clock for deterministic timestamps.
func NewMemStore(clock Clock) *MemStore {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &MemStore{
		data:  make(map[string]map[string]map[string]any),
		clock: clock,
	}
}

// Get returns a deep copy of the document or ErrNotFound.
func (m *MemStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyData(fields)}, nil
}

// Add stores a new document under a generated ID, resolving any pending
// timestamp sentinels to the current clock time.
func (m *MemStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.put(collection, id, resolveData(data, m.clock()))
	return id, nil
}

// Run executes a query against the current state. Documents missing any
// OrderBy field are excluded; ties on all order fields break by document
// ID ascending, so ordered results form a total order.
func (m *MemStore) Run(ctx context.Context, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Document
	for id, fields := range m.data[q.Collection] {
		if !matchesFilters(fields, q.Filters) {
			continue
		}
		if missingOrderField(fields, q.Orders) {
			continue
		}
		matched = append(matched, Document{ID: id, Data: fields})
	}

	sort.Slice(matched, func(i, j int) bool {
		return orderLess(matched[i], matched[j], q.Orders)
	})

	if len(q.StartAfterValues) > 0 {
		if len(q.StartAfterValues) != len(q.Orders)+1 {
			return nil, fmt.Errorf("startAfter tuple has %d values, want %d", len(q.StartAfterValues), len(q.Orders)+1)
		}
		cut := sort.Search(len(matched), func(i int) bool {
			return tupleCompare(matched[i], q.StartAfterValues, q.Orders) > 0
		})
		matched = matched[cut:]
	}

	if q.LimitCount > 0 && len(matched) > q.LimitCount {
		matched = matched[:q.LimitCount]
	}

	out := make([]Document, len(matched))
	for i, d := range matched {
		out[i] = Document{ID: d.ID, Data: copyData(d.Data)}
	}
	return out, nil
}

// RunTransaction runs fn under the store lock. Staged writes apply in
// order when fn returns nil, with every ServerTimestamp resolved to one
// commit time; any error from fn or from applying discards all of them.
func (m *MemStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m}
	if err := fn(tx); err != nil {
		return err
	}

	// Validate before applying so a bad Update target cannot leave a
	// partially applied transaction behind.
	staged := make(map[string]opKind)
	for _, op := range tx.ops {
		key := op.collection + "/" + op.id
		if op.kind == opUpdate {
			prior, wasStaged := staged[key]
			if wasStaged {
				if prior == opDelete {
					return ErrNotFound
				}
			} else if _, ok := m.data[op.collection][op.id]; !ok {
				return ErrNotFound
			}
			continue
		}
		staged[key] = op.kind
	}

	commitAt := m.clock()
	for _, op := range tx.ops {
		switch op.kind {
		case opSet:
			m.put(op.collection, op.id, resolveData(op.data, commitAt))
		case opUpdate:
			existing, ok := m.data[op.collection][op.id]
			if !ok {
				return ErrNotFound
			}
			for k, v := range resolveData(op.data, commitAt) {
				existing[k] = v
			}
		case opDelete:
			delete(m.data[op.collection], op.id)
		}
	}
	return nil
}

func (m *MemStore) put(collection, id string, fields map[string]any) {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]map[string]any)
	}
	m.data[collection][id] = fields
}

type opKind int

const (
	opSet opKind = iota
	opUpdate
	opDelete
)

type stagedOp struct {
	kind       opKind
	collection string
	id         string
	data       map[string]any
}

// memTx stages writes against a MemStore. Reads observe the state as of
// transaction start; staged writes are not visible to Get.
type memTx struct {
	store *MemStore
	ops   []stagedOp
}

func (t *memTx) Get(collection, id string) (Document, error) {
	fields, ok := t.store.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyData(fields)}, nil
}

func (t *memTx) Create(collection string, data map[string]any) string {
	id := uuid.NewString()
	t.ops = append(t.ops, stagedOp{kind: opSet, collection: collection, id: id, data: copyData(data)})
	return id
}

func (t *memTx) Set(collection, id string, data map[string]any) {
	t.ops = append(t.ops, stagedOp{kind: opSet, collection: collection, id: id, data: copyData(data)})
}

func (t *memTx) Update(collection, id string, fields map[string]any) {
	t.ops = append(t.ops, stagedOp{kind: opUpdate, collection: collection, id: id, data: copyData(fields)})
}

func (t *memTx) Delete(collection, id string) {
	t.ops = append(t.ops, stagedOp{kind: opDelete, collection: collection, id: id})
}

// --- query evaluation helpers ---

func matchesFilters(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok {
			return false
		}
		c, comparable := compareValues(v, f.Value)
		switch f.Op {
		case OpEqual:
			if !comparable || c != 0 {
				return false
			}
		case OpNotEqual:
			if !comparable || c == 0 {
				return false
			}
		case OpLess:
			if !comparable || c >= 0 {
				return false
			}
		case OpLessEqual:
			if !comparable || c > 0 {
				return false
			}
		case OpGreater:
			if !comparable || c <= 0 {
				return false
			}
		case OpGreaterEqual:
			if !comparable || c < 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func missingOrderField(fields map[string]any, orders []Order) bool {
	for _, o := range orders {
		if v, ok := fields[o.Field]; !ok || v == nil {
			return true
		}
	}
	return false
}

// orderLess implements the query sort: each order field in turn, then the
// document ID ascending.
func orderLess(a, b Document, orders []Order) bool {
	for _, o := range orders {
		c, _ := compareValues(a.Data[o.Field], b.Data[o.Field])
		if o.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
	}
	return a.ID < b.ID
}

// tupleCompare positions doc against a startAfter tuple in sort order:
// negative when the doc sorts before the tuple, zero at the tuple, and
// positive strictly after it.
func tupleCompare(doc Document, tuple []any, orders []Order) int {
	for i, o := range orders {
		c, _ := compareValues(doc.Data[o.Field], tuple[i])
		if o.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	lastID, _ := tuple[len(tuple)-1].(string)
	return strings.Compare(doc.ID, lastID)
}

// compareValues orders two field values. The second result is false when
// the values are of incompatible types; such pairs order by a stable type
// rank so sorting stays deterministic.
func compareValues(a, b any) (int, bool) {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1, false
		}
		return 1, false
	}
	switch av := a.(type) {
	case nil:
		return 0, true
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	case string:
		return strings.Compare(av, b.(string)), true
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		default:
			return 0, true
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int64, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	default:
		return 5
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// --- value copying and sentinel resolution ---

func copyData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

func resolveData(data map[string]any, at time.Time) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = resolveValue(v, at)
	}
	return out
}

func resolveValue(v any, at time.Time) any {
	if IsServerTimestamp(v) {
		return at
	}
	switch t := v.(type) {
	case map[string]any:
		return resolveData(t, at)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = resolveValue(e, at)
		}
		return out
	default:
		return v
	}
}
