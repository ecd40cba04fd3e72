package domain

import (
	"fmt"

	appErrors "karmdeep-backend/pkg/errors"
)

// Tender statuses.
const (
	TenderDraft     = "DRAFT"
	TenderPublished = "PUBLISHED"
	TenderClosed    = "CLOSED"
	TenderAwarded   = "AWARDED"
)

// Bid statuses.
const (
	BidSubmitted   = "SUBMITTED"
	BidUnderReview = "UNDER_REVIEW"
	BidAccepted    = "ACCEPTED"
	BidRejected    = "REJECTED"
)

// Order statuses.
const (
	OrderPending      = "PENDING"
	OrderConfirmed    = "CONFIRMED"
	OrderInProduction = "IN_PRODUCTION"
	OrderShipped      = "SHIPPED"
	OrderDelivered    = "DELIVERED"
	OrderInstalled    = "INSTALLED"
	OrderCompleted    = "COMPLETED"
	OrderCancelled    = "CANCELLED"
)

// Work order statuses.
const (
	WorkOrderCreated    = "CREATED"
	WorkOrderAssigned   = "ASSIGNED"
	WorkOrderInProgress = "IN_PROGRESS"
	WorkOrderCompleted  = "COMPLETED"
	WorkOrderCancelled  = "CANCELLED"
)

// Transitions is an allowed-edges table for one status machine. A status
// update is legal only when the target appears in the source's edge set.
type Transitions map[string][]string

// Can reports whether the edge from -> to exists.
func (t Transitions) Can(from, to string) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Check returns a validation error for edges not in the table.
func (t Transitions) Check(entity, from, to string) error {
	if _, known := t[from]; !known {
		return appErrors.NewValidation(fmt.Sprintf("unknown %s status %q", entity, from))
	}
	if !t.Can(from, to) {
		return appErrors.NewValidation(fmt.Sprintf("illegal %s status transition %s -> %s", entity, from, to))
	}
	return nil
}

// TenderTransitions: DRAFT -> PUBLISHED -> CLOSED -> AWARDED.
var TenderTransitions = Transitions{
	TenderDraft:     {TenderPublished},
	TenderPublished: {TenderClosed},
	TenderClosed:    {TenderAwarded},
	TenderAwarded:   {},
}

// BidTransitions: SUBMITTED -> UNDER_REVIEW -> ACCEPTED | REJECTED.
var BidTransitions = Transitions{
	BidSubmitted:   {BidUnderReview},
	BidUnderReview: {BidAccepted, BidRejected},
	BidAccepted:    {},
	BidRejected:    {},
}

// OrderTransitions follow the fulfilment pipeline; CANCELLED is reachable
// from every non-terminal state.
var OrderTransitions = Transitions{
	OrderPending:      {OrderConfirmed, OrderCancelled},
	OrderConfirmed:    {OrderInProduction, OrderCancelled},
	OrderInProduction: {OrderShipped, OrderCancelled},
	OrderShipped:      {OrderDelivered, OrderCancelled},
	OrderDelivered:    {OrderInstalled, OrderCancelled},
	OrderInstalled:    {OrderCompleted, OrderCancelled},
	OrderCompleted:    {},
	OrderCancelled:    {},
}

// WorkOrderTransitions: CREATED -> ASSIGNED -> IN_PROGRESS -> COMPLETED | CANCELLED.
var WorkOrderTransitions = Transitions{
	WorkOrderCreated:    {WorkOrderAssigned, WorkOrderCancelled},
	WorkOrderAssigned:   {WorkOrderInProgress, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderCompleted:  {},
	WorkOrderCancelled:  {},
}
