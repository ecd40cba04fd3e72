package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"karmdeep-backend/internal/domain"
	"karmdeep-backend/internal/messaging"
	"karmdeep-backend/internal/repository/mocks"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
)

const testTopic = "arn:aws:sns:ap-south-1:000000000000:order-events"

func newTestService() (*Service, *messaging.MockPublisher) {
	store := mocks.NewMockStore()
	publisher := messaging.NewMockPublisher()
	svc := NewService(store, publisher, testTopic, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	counter := 0
	svc.newID = func() string {
		counter++
		return fmt.Sprintf("o-%d", counter)
	}
	return svc, publisher
}

func buyer() auth.Principal {
	return auth.Principal{UserID: "u-1", Role: auth.RoleManufacturer, CompanyID: "buyer-1"}
}

func vendor() auth.Principal {
	return auth.Principal{UserID: "u-2", Role: auth.RoleVendor, CompanyID: "vendor-1"}
}

func orderPayload() map[string]interface{} {
	return map[string]interface{}{
		"vendorId":        "vendor-1",
		"productId":       "p-1",
		"quantity":        2.0,
		"totalAmount":     300000.0,
		"currency":        "USD",
		"shippingAddress": map[string]interface{}{"city": "Pune", "country": "IN"},
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("manufacturer creates pending order and vendor is notified", func(t *testing.T) {
		svc, publisher := newTestService()

		order, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPending, order.Status)
		assert.Equal(t, "buyer-1", order.BuyerID)

		require.Len(t, publisher.Events, 1)
		assert.Equal(t, messaging.EventOrderCreated, publisher.Events[0].Event.EventType)
		assert.Equal(t, testTopic, publisher.Events[0].TopicARN)
	})

	t.Run("vendor caller is forbidden", func(t *testing.T) {
		svc, publisher := newTestService()

		_, err := svc.CreateOrder(ctx, vendor(), orderPayload())
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
		assert.Empty(t, publisher.Events)
	})

	t.Run("quantity zero is present, not missing", func(t *testing.T) {
		svc, _ := newTestService()

		payload := orderPayload()
		payload["quantity"] = 0.0
		order, err := svc.CreateOrder(ctx, buyer(), payload)
		require.NoError(t, err)
		assert.Zero(t, order.Quantity)
	})

	t.Run("missing fields are all reported", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.CreateOrder(ctx, buyer(), map[string]interface{}{"vendorId": "vendor-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "productId")
		assert.Contains(t, err.Error(), "quantity")
		assert.Contains(t, err.Error(), "shippingAddress")
	})

	t.Run("notification failure does not fail the order", func(t *testing.T) {
		svc, publisher := newTestService()
		publisher.SetError(fmt.Errorf("sns unavailable"))

		order, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPending, order.Status)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("buyer, vendor and admin may view", func(t *testing.T) {
		svc, _ := newTestService()
		created, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)

		for _, p := range []auth.Principal{
			buyer(),
			vendor(),
			{UserID: "a-1", Role: auth.RoleAdmin},
		} {
			got, err := svc.GetOrder(ctx, p, created.OrderID)
			require.NoError(t, err)
			assert.Equal(t, created.OrderID, got.OrderID)
		}
	})

	t.Run("third party is forbidden", func(t *testing.T) {
		svc, _ := newTestService()
		created, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)

		other := auth.Principal{UserID: "u-9", Role: auth.RoleVendor, CompanyID: "vendor-9"}
		_, err = svc.GetOrder(ctx, other, created.OrderID)
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.GetOrder(ctx, buyer(), "ghost")
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("vendor walks the pipeline and buyer side is notified", func(t *testing.T) {
		svc, publisher := newTestService()
		created, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(ctx, vendor(), created.OrderID, domain.OrderConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderConfirmed, updated.Status)

		assert.Equal(t, []string{
			messaging.EventOrderCreated,
			messaging.EventOrderStatusUpdated,
		}, publisher.EventTypes())
	})

	t.Run("skipping pipeline stages is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		created, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, vendor(), created.OrderID, domain.OrderShipped)
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("cancel is reachable from any non-terminal state", func(t *testing.T) {
		svc, _ := newTestService()
		created, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, vendor(), created.OrderID, domain.OrderConfirmed)
		require.NoError(t, err)
		updated, err := svc.UpdateStatus(ctx, vendor(), created.OrderID, domain.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCancelled, updated.Status)

		_, err = svc.UpdateStatus(ctx, vendor(), created.OrderID, domain.OrderConfirmed)
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})

	t.Run("buyer cannot update status", func(t *testing.T) {
		svc, _ := newTestService()
		created, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, buyer(), created.OrderID, domain.OrderConfirmed)
		require.Error(t, err)
		assert.True(t, appErrors.IsForbidden(err))
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("by buyer, by vendor, with status filter", func(t *testing.T) {
		svc, _ := newTestService()
		first, err := svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)
		_, err = svc.CreateOrder(ctx, buyer(), orderPayload())
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, vendor(), first.OrderID, domain.OrderConfirmed)
		require.NoError(t, err)

		byBuyer, _, err := svc.ListOrders(ctx, "buyer-1", "", "", 0, "")
		require.NoError(t, err)
		assert.Len(t, byBuyer, 2)

		byVendor, _, err := svc.ListOrders(ctx, "", "vendor-1", "", 0, "")
		require.NoError(t, err)
		assert.Len(t, byVendor, 2)

		confirmed, _, err := svc.ListOrders(ctx, "buyer-1", "", domain.OrderConfirmed, 0, "")
		require.NoError(t, err)
		require.Len(t, confirmed, 1)
		assert.Equal(t, first.OrderID, confirmed[0].OrderID)

		_, _, err = svc.ListOrders(ctx, "", "", "", 0, "")
		require.Error(t, err)
		assert.True(t, appErrors.IsValidation(err))
	})
}
