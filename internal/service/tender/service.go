// Package tender implements procurement tenders and the bids raised
// against them.
package tender

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
	createTenderPolicy = auth.Policy{
		Roles:   []string{auth.RoleManufacturer},
		Message: "only manufacturers can create tenders",
	}
	submitBidPolicy = auth.Policy{
		Roles:   []string{auth.RoleVendor},
		Message: "only vendors can submit bids",
	}
	tenderOwnerPolicy = auth.Policy{
		Ownership: auth.OwnershipRequired,
		Message:   "not authorized to manage this tender",
	}
)

// Service implements the tender operations.
type Service struct {
	store     repository.Store
	publisher messaging.Publisher
	topicARN  string
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires a tender service. topicARN is the tender-events topic;
// empty disables publishing.
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

// CreateTender persists a new tender under the caller. A tender created
// directly in PUBLISHED state announces itself on the tender topic.
func (s *Service) CreateTender(ctx context.Context, p auth.Principal, payload map[string]interface{}) (*domain.Tender, error) {
	if err := auth.Authorize(p, createTenderPolicy, ""); err != nil {
		return nil, err
	}
	if err := validation.Required(payload, "title", "description", "specifications", "commercialTerms", "deadline"); err != nil {
		return nil, err
	}

	var tender domain.Tender
	if err := repository.Unmarshal(repository.Record(payload), &tender); err != nil {
		return nil, appErrors.NewValidation("malformed tender payload")
	}
	if err := validation.FutureTime(tender.Deadline, "deadline", s.now()); err != nil {
		return nil, err
	}
	if tender.Status == "" {
		tender.Status = domain.TenderDraft
	} else if err := validation.OneOf(tender.Status, "status", domain.TenderDraft, domain.TenderPublished); err != nil {
		return nil, err
	}

	now := repository.Timestamp(s.now())
	tender.TenderID = s.newID()
	tender.BuyerID = p.ActorID()
	tender.CreatedAt = now
	tender.UpdatedAt = now
	if err := validation.Struct(tender); err != nil {
		return nil, err
	}

	rec, err := repository.Marshal(tender)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode tender", err)
	}
	rec = rec.WithKey(keys.Tender(tender.TenderID)).
		WithGSI1(keys.TenderByBuyer(tender.BuyerID, tender.TenderID)).
		WithGSI2(keys.TenderListing(tender.CreatedAt, tender.TenderID))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	if tender.Status == domain.TenderPublished {
		s.notifyPublished(ctx, tender)
	}

	s.logger.Info("Tender created",
		zap.String("tenderId", tender.TenderID),
		zap.String("status", tender.Status),
	)
	return &tender, nil
}

// GetTender fetches one tender.
func (s *Service) GetTender(ctx context.Context, tenderID string) (*domain.Tender, error) {
	rec, err := s.store.Get(ctx, keys.Tender(tenderID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, appErrors.NewNotFound("tender not found")
	}
	var tender domain.Tender
	if err := repository.Unmarshal(rec, &tender); err != nil {
		return nil, appErrors.NewInternal("failed to decode tender", err)
	}
	return &tender, nil
}

// ListTenders pages tenders by buyer, or the global board when buyerID is
// empty. A status filter is applied after the page is read, so a filtered
// page may come back short.
func (s *Service) ListTenders(ctx context.Context, buyerID, status string, limit int, nextToken string) ([]domain.Tender, string, error) {
	var q repository.Query
	if buyerID != "" {
		q = repository.Query{
			Partition:  keys.BuyerPartition(buyerID),
			SortPrefix: "TENDER#",
			Index:      repository.IndexGSI1,
			Limit:      limit,
			NextToken:  nextToken,
		}
	} else {
		q = repository.Query{
			Partition: keys.TendersPartition(),
			Index:     repository.IndexGSI2,
			Limit:     limit,
			NextToken: nextToken,
		}
	}

	page, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, "", err
	}

	tenders := make([]domain.Tender, 0, len(page.Items))
	for _, rec := range page.Items {
		var tender domain.Tender
		if err := repository.Unmarshal(rec, &tender); err != nil {
			return nil, "", appErrors.NewInternal("failed to decode tender", err)
		}
		if status != "" && tender.Status != status {
			continue
		}
		tenders = append(tenders, tender)
	}
	return tenders, page.NextToken, nil
}

// UpdateTenderStatus moves a tender along its lifecycle. Publishing a
// draft announces it on the tender topic.
func (s *Service) UpdateTenderStatus(ctx context.Context, p auth.Principal, tenderID, status string) (*domain.Tender, error) {
	tender, err := s.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, tenderOwnerPolicy, tender.BuyerID); err != nil {
		return nil, err
	}
	if err := domain.TenderTransitions.Check("tender", tender.Status, status); err != nil {
		return nil, err
	}

	rec, err := s.store.Update(ctx, keys.Tender(tenderID), repository.Record{"status": status})
	if err != nil {
		return nil, err
	}
	var updated domain.Tender
	if err := repository.Unmarshal(rec, &updated); err != nil {
		return nil, appErrors.NewInternal("failed to decode tender", err)
	}

	if status == domain.TenderPublished {
		s.notifyPublished(ctx, updated)
	}
	return &updated, nil
}

// SubmitBid records a vendor's offer against a published tender whose
// deadline has not passed. The sort key makes resubmission overwrite the
// vendor's previous bid.
func (s *Service) SubmitBid(ctx context.Context, p auth.Principal, tenderID string, payload map[string]interface{}) (*domain.Bid, error) {
	if err := auth.Authorize(p, submitBidPolicy, ""); err != nil {
		return nil, err
	}

	tender, err := s.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if tender.Status != domain.TenderPublished {
		return nil, appErrors.NewValidation("tender is not open for bidding")
	}
	deadline, err := time.Parse(time.RFC3339, tender.Deadline)
	if err != nil || !deadline.After(s.now()) {
		return nil, appErrors.NewValidation("tender deadline has passed")
	}

	if err := validation.Required(payload, "bidAmount", "currency", "technicalProposal", "commercialTerms", "validUntil"); err != nil {
		return nil, err
	}
	var bid domain.Bid
	if err := repository.Unmarshal(repository.Record(payload), &bid); err != nil {
		return nil, appErrors.NewValidation("malformed bid payload")
	}

	bid.BidID = s.newID()
	bid.TenderID = tenderID
	bid.VendorID = p.ActorID()
	bid.Status = domain.BidSubmitted
	bid.SubmittedAt = repository.Timestamp(s.now())
	if err := validation.Struct(bid); err != nil {
		return nil, err
	}

	rec, err := repository.Marshal(bid)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode bid", err)
	}
	rec = rec.WithKey(keys.Bid(tenderID, bid.VendorID)).
		WithGSI1(keys.BidByVendor(bid.VendorID, bid.BidID))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Bid submitted",
		zap.String("bidId", bid.BidID),
		zap.String("tenderId", tenderID),
		zap.String("vendorId", bid.VendorID),
	)
	return &bid, nil
}

// GetBids pages the bids on a tender. Only the tender owner or an admin
// may see them.
func (s *Service) GetBids(ctx context.Context, p auth.Principal, tenderID string, limit int, nextToken string) ([]domain.Bid, string, error) {
	tender, err := s.GetTender(ctx, tenderID)
	if err != nil {
		return nil, "", err
	}
	if err := auth.Authorize(p, tenderOwnerPolicy, tender.BuyerID); err != nil {
		return nil, "", err
	}

	page, err := s.store.Query(ctx, repository.Query{
		Partition:  keys.TenderPartition(tenderID),
		SortPrefix: keys.BidSKPrefix(),
		Limit:      limit,
		NextToken:  nextToken,
	})
	if err != nil {
		return nil, "", err
	}

	bids := make([]domain.Bid, 0, len(page.Items))
	for _, rec := range page.Items {
		var bid domain.Bid
		if err := repository.Unmarshal(rec, &bid); err != nil {
			return nil, "", appErrors.NewInternal("failed to decode bid", err)
		}
		bids = append(bids, bid)
	}
	return bids, page.NextToken, nil
}

// ReviewBid moves a bid through its review machine on behalf of the
// tender owner.
func (s *Service) ReviewBid(ctx context.Context, p auth.Principal, tenderID, vendorID, status string) (*domain.Bid, error) {
	tender, err := s.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, tenderOwnerPolicy, tender.BuyerID); err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, keys.Bid(tenderID, vendorID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, appErrors.NewNotFound("bid not found")
	}
	var bid domain.Bid
	if err := repository.Unmarshal(rec, &bid); err != nil {
		return nil, appErrors.NewInternal("failed to decode bid", err)
	}
	if err := domain.BidTransitions.Check("bid", bid.Status, status); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, keys.Bid(tenderID, vendorID), repository.Record{"status": status})
	if err != nil {
		return nil, err
	}
	if err := repository.Unmarshal(updated, &bid); err != nil {
		return nil, appErrors.NewInternal("failed to decode bid", err)
	}
	return &bid, nil
}

func (s *Service) notifyPublished(ctx context.Context, tender domain.Tender) {
	event := messaging.NewEvent(messaging.EventTenderPublished, map[string]interface{}{
		"tenderId": tender.TenderID,
		"buyerId":  tender.BuyerID,
		"title":    tender.Title,
		"deadline": tender.Deadline,
	})
	subject := fmt.Sprintf("New Tender: %s", tender.Title)
	if _, err := s.publisher.Publish(ctx, s.topicARN, subject, event); err != nil {
		s.logger.Warn("Tender notification failed",
			zap.Error(err),
			zap.String("tenderId", tender.TenderID),
		)
	}
}
