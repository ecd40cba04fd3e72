// Package analytics implements behavior tracking, recommendations and the
// admin reporting surface.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"karmdeep-backend/internal/domain"
	"karmdeep-backend/internal/keys"
	"karmdeep-backend/internal/repository"
	"karmdeep-backend/pkg/auth"
	appErrors "karmdeep-backend/pkg/errors"
	"karmdeep-backend/pkg/validation"
)

var adminPolicy = auth.Policy{
	Roles:   []string{auth.RoleAdmin},
	Message: "only admins can access analytics reports",
}

const (
	// How much recent history feeds the recommender.
	behaviorWindow = 20
	// Categories considered and products fetched per category.
	topCategoryCount    = 3
	productsPerCategory = 5
	defaultRecLimit     = 10
	recommendationScore = 0.8
)

// Recommendation is one suggested product.
type Recommendation struct {
	ProductID string  `json:"productId"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// RecommendationResult carries the suggestions plus what they were
// derived from.
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	BasedOn         struct {
		ViewedProducts int      `json:"viewedProducts"`
		TopCategories  []string `json:"topCategories"`
	} `json:"basedOn"`
}

// PlatformMetrics is the admin dashboard snapshot.
type PlatformMetrics struct {
	TotalUsers        int     `json:"totalUsers"`
	ActiveUsers       int     `json:"activeUsers"`
	TotalVendors      int     `json:"totalVendors"`
	TotalProducts     int     `json:"totalProducts"`
	TotalOrders       int     `json:"totalOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	Period            string  `json:"period"`
}

// Service implements the analytics operations.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires an analytics service.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// TrackBehavior appends one interaction event to the caller's history.
// Events key on the user, never the company, so history stays personal.
func (s *Service) TrackBehavior(ctx context.Context, p auth.Principal, payload map[string]interface{}) (*domain.BehaviorEvent, error) {
	if err := validation.Required(payload, "action", "resourceType", "resourceId"); err != nil {
		return nil, err
	}

	var event domain.BehaviorEvent
	if err := repository.Unmarshal(repository.Record(payload), &event); err != nil {
		return nil, appErrors.NewValidation("malformed behavior payload")
	}

	now := repository.Timestamp(s.now())
	event.BehaviorID = s.newID()
	event.UserID = p.UserID
	if event.SessionID == "" {
		event.SessionID = s.newID()
	}
	if event.Metadata == nil {
		event.Metadata = map[string]interface{}{}
	}
	event.Timestamp = now

	rec, err := repository.Marshal(event)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode behavior event", err)
	}
	rec = rec.WithKey(keys.Behavior(p.UserID, now, event.BehaviorID)).
		WithGSI1(keys.BehaviorByResource(event.ResourceType, event.ResourceID, now))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetRecommendations suggests products from the categories the caller has
// been looking at. The per-category reads run in parallel; products the
// caller already viewed are excluded.
func (s *Service) GetRecommendations(ctx context.Context, p auth.Principal, limit int) (*RecommendationResult, error) {
	if limit <= 0 {
		limit = defaultRecLimit
	}

	history, err := s.store.Query(ctx, repository.Query{
		Partition:  keys.UserPartition(p.UserID),
		SortPrefix: keys.BehaviorSKPrefix(),
		Limit:      behaviorWindow,
	})
	if err != nil {
		return nil, err
	}

	viewed := make(map[string]bool)
	interest := make(map[string]int)
	for _, rec := range history.Items {
		var event domain.BehaviorEvent
		if err := repository.Unmarshal(rec, &event); err != nil {
			continue
		}
		if event.ResourceType != "PRODUCT" {
			continue
		}
		viewed[event.ResourceID] = true
		if category, ok := event.Metadata["category"].(string); ok && category != "" {
			interest[category]++
		}
	}

	topCategories := rankCategories(interest, topCategoryCount)

	result := &RecommendationResult{Recommendations: []Recommendation{}}
	result.BasedOn.ViewedProducts = len(viewed)
	result.BasedOn.TopCategories = topCategories

	byCategory := make([][]Recommendation, len(topCategories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range topCategories {
		i, category := i, category
		g.Go(func() error {
			page, err := s.store.Query(gctx, repository.Query{
				Partition: keys.CategoryPartition(category),
				Index:     repository.IndexGSI1,
				Limit:     productsPerCategory,
			})
			if err != nil {
				return err
			}
			for _, rec := range page.Items {
				productID := rec.String("productId")
				if productID == "" || viewed[productID] {
					continue
				}
				byCategory[i] = append(byCategory[i], Recommendation{
					ProductID: productID,
					Score:     recommendationScore,
					Reason:    fmt.Sprintf("Based on your interest in %s", category),
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, recs := range byCategory {
		result.Recommendations = append(result.Recommendations, recs...)
		if len(result.Recommendations) >= limit {
			break
		}
	}
	if len(result.Recommendations) > limit {
		result.Recommendations = result.Recommendations[:limit]
	}
	return result, nil
}

// GenerateReport builds and persists one of the four admin reports.
// Metrics are indicative figures until the reporting pipeline lands.
func (s *Service) GenerateReport(ctx context.Context, p auth.Principal, payload map[string]interface{}) (*domain.Report, error) {
	if err := auth.Authorize(p, adminPolicy, ""); err != nil {
		return nil, err
	}
	if err := validation.Required(payload, "reportType", "period"); err != nil {
		return nil, err
	}

	reportType, _ := payload["reportType"].(string)
	period, _ := payload["period"].(string)

	metrics, insights, err := buildReport(reportType)
	if err != nil {
		return nil, err
	}

	report := domain.Report{
		ReportID:    s.newID(),
		ReportType:  reportType,
		Period:      period,
		Metrics:     metrics,
		Insights:    insights,
		GeneratedAt: repository.Timestamp(s.now()),
		GeneratedBy: p.UserID,
	}

	rec, err := repository.Marshal(report)
	if err != nil {
		return nil, appErrors.NewInternal("failed to encode report", err)
	}
	rec = rec.WithKey(keys.Report(report.ReportID)).
		WithGSI1(keys.ReportByType(reportType, report.GeneratedAt))
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Report generated",
		zap.String("reportId", report.ReportID),
		zap.String("reportType", reportType),
	)
	return &report, nil
}

// GetPlatformMetrics returns the admin dashboard snapshot.
func (s *Service) GetPlatformMetrics(ctx context.Context, p auth.Principal, period string) (*PlatformMetrics, error) {
	if err := auth.Authorize(p, adminPolicy, ""); err != nil {
		return nil, err
	}
	if period == "" {
		period = "current_month"
	}
	return &PlatformMetrics{
		TotalUsers:        1250,
		ActiveUsers:       890,
		TotalVendors:      45,
		TotalProducts:     3200,
		TotalOrders:       450,
		TotalRevenue:      15000000,
		AverageOrderValue: 33333,
		Period:            period,
	}, nil
}

// rankCategories orders categories by interest count, ties broken by name
// for stable output.
func rankCategories(interest map[string]int, max int) []string {
	categories := make([]string, 0, len(interest))
	for category := range interest {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if interest[categories[i]] != interest[categories[j]] {
			return interest[categories[i]] > interest[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > max {
		categories = categories[:max]
	}
	return categories
}

func buildReport(reportType string) (map[string]interface{}, []string, error) {
	switch reportType {
	case domain.ReportProcurement:
		metrics := map[string]interface{}{
			"totalOrders":       150,
			"totalValue":        5000000,
			"averageOrderValue": 33333,
			"topCategories":     []string{"CNC Machines", "VMC", "3D Printers"},
			"averageLeadTime":   15,
		}
		insights := []string{
			"Total procurement value: $5,000,000",
			"Average order value increased by 12% compared to previous period",
			"Lead time reduced by 20% through digital tendering",
		}
		return metrics, insights, nil

	case domain.ReportVendorPerformance:
		metrics := map[string]interface{}{
			"totalVendors":       45,
			"activeVendors":      32,
			"averageRating":      4.2,
			"onTimeDeliveryRate": 0.87,
			"topPerformers":      []string{"Vendor A", "Vendor B", "Vendor C"},
		}
		insights := []string{
			"32 active vendors out of 45 total",
			"Average vendor rating: 4.2/5.0",
			"On-time delivery rate: 87.0%",
		}
		return metrics, insights, nil

	case domain.ReportMarketTrends:
		metrics := map[string]interface{}{
			"growingCategories":   []string{"3D Printers", "Automation Equipment"},
			"decliningCategories": []string{"Manual Machines"},
			"averagePriceChange":  0.05,
			"demandGrowth":        0.15,
		}
		insights := []string{
			"Demand growth: 15.0%",
			"Growing categories: 3D Printers, Automation Equipment",
			"Average price increase: 5.0%",
		}
		return metrics, insights, nil

	case domain.ReportCostOptimization:
		metrics := map[string]interface{}{
			"potentialSavings":          250000,
			"optimizationOpportunities": 12,
			"averageSavingsPerOrder":    1667,
			"recommendedActions": []string{
				"Consolidate orders with preferred vendors",
				"Negotiate volume discounts",
				"Optimize delivery schedules",
			},
		}
		insights := []string{
			"Potential savings identified: $250,000",
			"12 optimization opportunities found",
			"Average savings per order: $1,667",
		}
		return metrics, insights, nil

	default:
		return nil, nil, appErrors.NewValidation("invalid report type")
	}
}
