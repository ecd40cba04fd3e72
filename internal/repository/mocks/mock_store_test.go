package mocks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karmdeep-backend/internal/keys"
	"karmdeep-backend/internal/repository"
	appErrors "karmdeep-backend/pkg/errors"
)

func TestMockStore_PutGet(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	rec := repository.Record{"name": "widget"}.WithKey(keys.Order("o-1"))
	require.NoError(t, store.Put(ctx, rec))

	got, err := store.Get(ctx, keys.Order("o-1"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "widget", got.String("name"))

	missing, err := store.Get(ctx, keys.Order("o-2"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMockStore_UpdateMergesAndStamps(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	rec := repository.Record{"status": "PENDING", "quantity": 5}.WithKey(keys.Order("o-1"))
	require.NoError(t, store.Put(ctx, rec))

	updated, err := store.Update(ctx, keys.Order("o-1"), repository.Record{"status": "CONFIRMED"})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", updated.String("status"))
	assert.Equal(t, 5, updated["quantity"])
	assert.NotEmpty(t, updated.String("updatedAt"))
}

func TestMockStore_UpdateStampsStrictlyIncrease(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	rec := repository.Record{"status": "PENDING"}.WithKey(keys.Order("o-1"))
	require.NoError(t, store.Put(ctx, rec))

	// Back-to-back updates land within the same second; each stamp must
	// still be strictly greater than the last.
	prev := ""
	for _, status := range []string{"CONFIRMED", "PROCESSING", "SHIPPED"} {
		updated, err := store.Update(ctx, keys.Order("o-1"), repository.Record{"status": status})
		require.NoError(t, err)
		stamp := updated.String("updatedAt")
		require.Greater(t, stamp, prev)
		prev = stamp
	}
}

func TestMockStore_UpdateMissingKey(t *testing.T) {
	store := NewMockStore()

	_, err := store.Update(context.Background(), keys.Order("nope"), repository.Record{"status": "CONFIRMED"})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestMockStore_DeleteIdempotent(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, repository.Record{}.WithKey(keys.Order("o-1"))))
	require.NoError(t, store.Delete(ctx, keys.Order("o-1")))
	require.NoError(t, store.Delete(ctx, keys.Order("o-1")))
	assert.Equal(t, 0, store.Len())
}

func TestMockStore_QueryPrefixAndIndex(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, repository.Record{"bidId": "b-1"}.
		WithKey(keys.Bid("t-1", "v-1")).
		WithGSI1(keys.BidByVendor("v-1", "b-1"))))
	require.NoError(t, store.Put(ctx, repository.Record{"bidId": "b-2"}.
		WithKey(keys.Bid("t-1", "v-2")).
		WithGSI1(keys.BidByVendor("v-2", "b-2"))))
	require.NoError(t, store.Put(ctx, repository.Record{"tenderId": "t-1"}.
		WithKey(keys.Tender("t-1"))))

	// Primary-key prefix query sees only the bids, not the tender record.
	page, err := store.Query(ctx, repository.Query{
		Partition:  "TENDER#t-1",
		SortPrefix: keys.BidSKPrefix(),
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	// Index query scoped to one vendor.
	page, err = store.Query(ctx, repository.Query{
		Partition: "VENDOR#v-1",
		Index:     repository.IndexGSI1,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b-1", page.Items[0].String("bidId"))
}

func TestMockStore_QueryPagination(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		orderID := fmt.Sprintf("o-%d", i)
		require.NoError(t, store.Put(ctx, repository.Record{"orderId": orderID}.
			WithKey(keys.Order(orderID)).
			WithGSI1(keys.OrderByBuyer("c-1", orderID))))
	}

	q := repository.Query{Partition: "BUYER#c-1", Index: repository.IndexGSI1, Limit: 2}
	var seen []string
	for {
		page, err := store.Query(ctx, q)
		require.NoError(t, err)
		for _, rec := range page.Items {
			seen = append(seen, rec.String("orderId"))
		}
		if page.NextToken == "" {
			break
		}
		q.NextToken = page.NextToken
	}
	assert.Equal(t, []string{"o-0", "o-1", "o-2", "o-3", "o-4"}, seen)
}

func TestMockStore_QueryResumeAfterDelete(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		orderID := fmt.Sprintf("o-%d", i)
		require.NoError(t, store.Put(ctx, repository.Record{"orderId": orderID}.
			WithKey(keys.Order(orderID)).
			WithGSI1(keys.OrderByBuyer("c-1", orderID))))
	}

	q := repository.Query{Partition: "BUYER#c-1", Index: repository.IndexGSI1, Limit: 2}
	page, err := store.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextToken)

	// Deleting the record the cursor points at must not replay the first
	// page on resume.
	require.NoError(t, store.Delete(ctx, keys.Order("o-1")))

	q.NextToken = page.NextToken
	rest, err := store.Query(ctx, q)
	require.NoError(t, err)
	var seen []string
	for _, rec := range rest.Items {
		seen = append(seen, rec.String("orderId"))
	}
	assert.Equal(t, []string{"o-2", "o-3"}, seen)
}

func TestMockStore_SetError(t *testing.T) {
	store := NewMockStore()
	forced := appErrors.NewInternal("boom", nil)
	store.SetError("Get", forced)

	_, err := store.Get(context.Background(), keys.Order("o-1"))
	assert.Equal(t, forced, err)

	store.ClearErrors()
	_, err = store.Get(context.Background(), keys.Order("o-1"))
	assert.NoError(t, err)
}
