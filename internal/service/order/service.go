// Package order implements purchase orders and their fulfilment pipeline.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"karmdeep-backend/internal/domain"
	"karmdeep-backend/internal/keys"
	"karmdeep-backend/internal/messaging"
	"karmdeep-backend/internal/repository"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
	"karmdeep-backend/pkg/validation"
)

var (
	createOrderPolicy = auth.Policy{
		Roles:   []string{auth.RoleManufacturer},
		Message: "only manufacturers can create orders",
	}
	updateStatusPolicy = auth.Policy{
		Ownership: auth.OwnershipRequired,
		Message:   "not authorized to update this order",
	}
)

// Service implements the order operations.
type Service struct {
	store     repository.Store
	publisher messaging.Publisher
	topicARN  string
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires an order service. topicARN is the order-events topic.
func NewService(store repository.Store, publisher messaging.Publisher, topicARN string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		topicARN:  topicARN,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateOrder persists a PENDING order for the caller and notifies the
// vendor. A quantity of zero is accepted; quantity must simply be present.
func (s *Service) CreateOrder(ctx context.Context, p auth.Principal, payload map[string]interface{}) (*domain.Order, error) {
	if err := auth.Authorize(p, createOrderPolicy, ""); err != nil {
		return nil, err
	}
	if err := validation.Required(payload, "vendorId", "productId", "quantity", "totalAmount", "currency", "shippingAddress"); err != nil {
		return nil, err
	}

	var order domain.Order
	if err := repository.Unmarshal(repository.Record(payload), &order); err != nil {
		return nil, appErrors.NewValidation("malformed order payload")
	}

	now := repository.Timestamp(s.now())
	order.OrderID = s.newID()
	order.BuyerID = p.ActorID()
	order.Status = domain.OrderPending
	order.CreatedAt = now
	order.UpdatedAt = now
	if err := validation.Struct(order); err != nil {
		return nil, err
	}

	rec, err := repository.Marshal(order)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode order", err)
	}
	rec = rec.WithKey(keys.Order(order.OrderID)).
		WithGSI1(keys.OrderByBuyer(order.BuyerID, order.OrderID)).
		WithGSI2(keys.OrderByVendor(order.VendorID, order.OrderID))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	event := messaging.NewEvent(messaging.EventOrderCreated, map[string]interface{}{
		"orderId":     order.OrderID,
		"buyerId":     order.BuyerID,
		"vendorId":    order.VendorID,
		"productId":   order.ProductID,
		"totalAmount": order.TotalAmount,
	})
	if _, err := s.publisher.Publish(ctx, s.topicARN, fmt.Sprintf("New Order: %s", order.OrderID), event); err != nil {
		s.logger.Warn("Order notification failed",
			zap.Error(err),
			zap.String("orderId", order.OrderID),
		)
	}

	s.logger.Info("Order created",
		zap.String("orderId", order.OrderID),
		zap.String("buyerId", order.BuyerID),
		zap.String("vendorId", order.VendorID),
	)
	return &order, nil
}

// GetOrder fetches one order. Buyer, vendor and admins may view it.
func (s *Service) GetOrder(ctx context.Context, p auth.Principal, orderID string) (*domain.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !auth.IsOwner(p, order.BuyerID) && !auth.IsOwner(p, order.VendorID) && !auth.IsAdmin(p) {
		return nil, appErrors.NewForbidden("not authorized to view this order")
	}
	return order, nil
}

// ListOrders pages orders by buyer or by vendor. A status filter is
// applied after the page is read.
func (s *Service) ListOrders(ctx context.Context, buyerID, vendorID, status string, limit int, nextToken string) ([]domain.Order, string, error) {
	var q repository.Query
	switch {
	case buyerID != "":
		q = repository.Query{
			Partition:  keys.BuyerPartition(buyerID),
			SortPrefix: "ORDER#",
			Index:      repository.IndexGSI1,
			Limit:      limit,
			NextToken:  nextToken,
		}
	case vendorID != "":
		q = repository.Query{
			Partition:  keys.VendorPartition(vendorID),
			SortPrefix: "ORDER#",
			Index:      repository.IndexGSI2,
			Limit:      limit,
			NextToken:  nextToken,
		}
	default:
		return nil, "", appErrors.NewValidation("either buyerId or vendorId is required")
	}

	page, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, "", err
	}

	orders := make([]domain.Order, 0, len(page.Items))
	for _, rec := range page.Items {
		var order domain.Order
		if err := repository.Unmarshal(rec, &order); err != nil {
			return nil, "", appErrors.NewInternal("failed to decode order", err)
		}
		if status != "" && order.Status != status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, page.NextToken, nil
}

// UpdateStatus moves an order along the fulfilment pipeline on behalf of
// the vendor, and tells the buyer's side what happened.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, orderID, status string) (*domain.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, updateStatusPolicy, order.VendorID); err != nil {
		return nil, err
	}
	if err := domain.OrderTransitions.Check("order", order.Status, status); err != nil {
		return nil, err
	}

	rec, err := s.store.Update(ctx, keys.Order(orderID), repository.Record{"status": status})
	if err != nil {
		return nil, err
	}
	var updated domain.Order
	if err := repository.Unmarshal(rec, &updated); err != nil {
		return nil, appErrors.NewInternal("failed to decode order", err)
	}

	event := messaging.NewEvent(messaging.EventOrderStatusUpdated, map[string]interface{}{
		"orderId": orderID,
		"status":  status,
		"buyerId": updated.BuyerID,
	})
	subject := fmt.Sprintf("Order %s - Status: %s", orderID, status)
	if _, err := s.publisher.Publish(ctx, s.topicARN, subject, event); err != nil {
		s.logger.Warn("Order status notification failed",
			zap.Error(err),
			zap.String("orderId", orderID),
		)
	}
	return &updated, nil
}

func (s *Service) load(ctx context.Context, orderID string) (*domain.Order, error) {
	rec, err := s.store.Get(ctx, keys.Order(orderID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, appErrors.NewNotFound("order not found")
	}
	var order domain.Order
	if err := repository.Unmarshal(rec, &order); err != nil {
		return nil, appErrors.NewInternal("failed to decode order", err)
	}
	return &order, nil
}
