// Package repository defines the generic single-table store every service
// persists through. Records of all entity types share one keyspace; every
// access pattern is pre-baked into the primary key or one of the two
// secondary-index projections at write time.
package repository

import (
	"context"

	"karmdeep-backend/internal/keys"
)

// Logical index names. Implementations map these onto the physical
// secondary indexes configured on the table.
const (
	IndexGSI1 = "GSI1"
	IndexGSI2 = "GSI2"
)

// Query describes a partition read, optionally narrowed by a sort-key
// prefix, against the primary key or one of the secondary indexes.
type Query struct {
	// Partition is the partition key value on the selected index.
	Partition string
	// SortPrefix, when set, restricts results to sort keys with this
	// prefix (begins_with semantics).
	SortPrefix string
	// Index selects IndexGSI1 or IndexGSI2; empty means the primary key.
	Index string
	// Limit caps the page size. Implementations apply their own default
	// and maximum when it is zero or out of bounds.
	Limit int
	// NextToken is the opaque continuation token from a previous page.
	NextToken string
}

// Page is one page of query results. NextToken is set when more records
// remain; callers replay it verbatim to fetch the next page.
type Page struct {
	Items     []Record
	NextToken string
}

// Store is the single data-access component. Get returns (nil, nil) for an
// absent key: not-found is a normal outcome, distinguished from storage
// failure. Update merges attributes into an existing record and rejects a
// missing key with a not-found error rather than creating a partial
// record. Delete is idempotent.
type Store interface {
	Put(ctx context.Context, record Record) error
	Get(ctx context.Context, key keys.Key) (Record, error)
	Query(ctx context.Context, q Query) (*Page, error)
	Update(ctx context.Context, key keys.Key, updates Record) (Record, error)
	Delete(ctx context.Context, key keys.Key) error
	BatchPut(ctx context.Context, records []Record) error
}
