// Package mocks provides an in-memory Store for service and handler tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"karmdeep-backend/internal/keys"
	"karmdeep-backend/internal/repository"
	appErrors "karmdeep-backend/pkg/errors"
)

// MockStore is an in-memory implementation of repository.Store. It mirrors
// the DynamoDB semantics the services rely on: Get returns nil for an absent
// record, Update rejects a missing key, Delete is idempotent, and Query
// filters by partition plus optional sort-key prefix on either the primary
// key or a secondary-index projection.
type MockStore struct {
	mu      sync.RWMutex
	records map[string]repository.Record
	errors  map[string]error
}

// NewMockStore creates an empty store.
func NewMockStore() *MockStore {
	return &MockStore{
		records: make(map[string]repository.Record),
		errors:  make(map[string]error),
	}
}

// SetError forces the named method (Put, Get, Query, Update, Delete,
// BatchPut) to fail with err.
func (m *MockStore) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method] = err
}

// ClearErrors removes all forced errors.
func (m *MockStore) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = make(map[string]error)
}

// Len reports how many records the store holds.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MockStore) checkError(method string) error {
	if err, ok := m.errors[method]; ok {
		return err
	}
	return nil
}

func mapKey(key keys.Key) string {
	return key.PK + "|" + key.SK
}

// nextStamp returns an update stamp strictly greater than prev, so two
// updates landing in the same millisecond still order.
func nextStamp(prev string) string {
	stamp := repository.Timestamp(time.Now())
	if prev == "" || stamp > prev {
		return stamp
	}
	t, err := time.Parse(time.RFC3339, prev)
	if err != nil {
		return stamp
	}
	return repository.Timestamp(t.Add(time.Millisecond))
}

func (m *MockStore) Put(ctx context.Context, record repository.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("Put"); err != nil {
		return err
	}
	m.records[mapKey(record.Key())] = record.Clone()
	return nil
}

func (m *MockStore) Get(ctx context.Context, key keys.Key) (repository.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("Get"); err != nil {
		return nil, err
	}
	rec, ok := m.records[mapKey(key)]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (m *MockStore) Query(ctx context.Context, q repository.Query) (*repository.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("Query"); err != nil {
		return nil, err
	}

	pkAttr, skAttr := keys.AttrPK, keys.AttrSK
	switch q.Index {
	case "":
	case repository.IndexGSI1:
		pkAttr, skAttr = keys.AttrGSI1PK, keys.AttrGSI1SK
	case repository.IndexGSI2:
		pkAttr, skAttr = keys.AttrGSI2PK, keys.AttrGSI2SK
	default:
		return nil, appErrors.NewValidation("unknown index: " + q.Index)
	}

	var matches []repository.Record
	for _, rec := range m.records {
		if rec.String(pkAttr) != q.Partition {
			continue
		}
		if q.SortPrefix != "" && !strings.HasPrefix(rec.String(skAttr), q.SortPrefix) {
			continue
		}
		matches = append(matches, rec.Clone())
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].String(skAttr) < matches[j].String(skAttr)
	})

	// Resume at the first sort key past the cursor's, like an
	// ExclusiveStartKey. The page boundary stays correct even when the
	// cursor's record has been deleted in between.
	start := 0
	if cursor, err := repository.DecodeNextToken(q.NextToken); err != nil {
		return nil, err
	} else if cursor != nil {
		after := cursorSortKey(*cursor, q.Index)
		start = sort.Search(len(matches), func(i int) bool {
			return matches[i].String(skAttr) > after
		})
	}

	limit := repository.EffectiveLimit(q.Limit)
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}
	page := &repository.Page{Items: matches[start:end]}
	if end < len(matches) {
		last := matches[end-1]
		page.NextToken = repository.EncodeNextToken(repository.LastEvaluatedKey{
			PK:     last.String(keys.AttrPK),
			SK:     last.String(keys.AttrSK),
			GSI1PK: last.String(keys.AttrGSI1PK),
			GSI1SK: last.String(keys.AttrGSI1SK),
			GSI2PK: last.String(keys.AttrGSI2PK),
			GSI2SK: last.String(keys.AttrGSI2SK),
		})
	}
	return page, nil
}

func cursorSortKey(cursor repository.LastEvaluatedKey, index string) string {
	switch index {
	case repository.IndexGSI1:
		return cursor.GSI1SK
	case repository.IndexGSI2:
		return cursor.GSI2SK
	default:
		return cursor.SK
	}
}

func (m *MockStore) Update(ctx context.Context, key keys.Key, updates repository.Record) (repository.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("Update"); err != nil {
		return nil, err
	}
	rec, ok := m.records[mapKey(key)]
	if !ok {
		return nil, appErrors.NewNotFound("record not found")
	}
	merged := rec.Clone()
	for name, value := range updates {
		merged[name] = value
	}
	if _, ok := updates["updatedAt"]; !ok {
		merged["updatedAt"] = nextStamp(rec.String("updatedAt"))
	}
	m.records[mapKey(key)] = merged
	return merged.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, key keys.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("Delete"); err != nil {
		return err
	}
	delete(m.records, mapKey(key))
	return nil
}

func (m *MockStore) BatchPut(ctx context.Context, records []repository.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("BatchPut"); err != nil {
		return err
	}
	for _, rec := range records {
		m.records[mapKey(rec.Key())] = rec.Clone()
	}
	return nil
}
