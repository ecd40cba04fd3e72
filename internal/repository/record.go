package repository

import (
	"encoding/json"
	"time"

	"karmdeep-backend/internal/keys"
	appErrors "karmdeep-backend/pkg/errors"
)

// TimestampLayout is the storage format for createdAt, updatedAt and the
// other stamp attributes. Millisecond precision keeps back-to-back writes
// ordered; whole-second RFC3339 makes two updates in the same second
// compare equal.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t as a storage stamp.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Record is a raw single-table item: the entity payload plus the PK/SK
// pair and any secondary-index projections.
type Record map[string]interface{}

// Key extracts the primary key of a record.
func (r Record) Key() keys.Key {
	pk, _ := r[keys.AttrPK].(string)
	sk, _ := r[keys.AttrSK].(string)
	return keys.Key{PK: pk, SK: sk}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SortKey returns the record's sort key value.
func (r Record) SortKey() string {
	sk, _ := r[keys.AttrSK].(string)
	return sk
}

// String reads a string attribute, returning "" when absent or not a
// string.
func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

// Marshal converts an entity into a Record via its JSON shape. Key and
// projection attributes are attached afterwards with WithKey and the
// WithIndex helpers.
func Marshal(entity interface{}) (Record, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, appErrors.NewInternal("failed to marshal record", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, appErrors.NewInternal("failed to marshal record", err)
	}
	return rec, nil
}

// Unmarshal converts a record back into an entity. Key and projection
// attributes carry no matching fields and fall away.
func Unmarshal(rec Record, entity interface{}) error {
	data, err := json.Marshal(map[string]interface{}(rec))
	if err != nil {
		return appErrors.NewInternal("failed to unmarshal record", err)
	}
	if err := json.Unmarshal(data, entity); err != nil {
		return appErrors.NewInternal("failed to unmarshal record", err)
	}
	return nil
}

// WithKey sets the primary key attributes.
func (r Record) WithKey(key keys.Key) Record {
	r[keys.AttrPK] = key.PK
	r[keys.AttrSK] = key.SK
	return r
}

// WithGSI1 sets the first secondary-index projection.
func (r Record) WithGSI1(p keys.Projection) Record {
	r[keys.AttrGSI1PK] = p.PK
	r[keys.AttrGSI1SK] = p.SK
	return r
}

// WithGSI2 sets the second secondary-index projection.
func (r Record) WithGSI2(p keys.Projection) Record {
	r[keys.AttrGSI2PK] = p.PK
	r[keys.AttrGSI2SK] = p.SK
	return r
}
