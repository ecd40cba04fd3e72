// Local development server mounting every service on one router.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"karmdeep-backend/internal/config"
	httprouter "karmdeep-backend/internal/interfaces/http"
	"karmdeep-backend/internal/interfaces/http/handlers"
	"karmdeep-backend/internal/messaging/sns"
	"karmdeep-backend/internal/repository/ddb"
	"karmdeep-backend/internal/service/analytics"
	"karmdeep-backend/internal/service/maintenance"
	"karmdeep-backend/internal/service/order"
	"karmdeep-backend/internal/service/tender"
	"karmdeep-backend/internal/service/vendor"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("unable to build logger: %v", err)
	}
	defer logger.Sync()

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Fatal("unable to load SDK config", zap.Error(err))
	}

	store := ddb.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName, cfg.GSI1Name, cfg.GSI2Name, logger)
	publisher := sns.NewPublisher(awssns.NewFromConfig(awsCfg), logger)

	r := httprouter.NewRouter(logger,
		handlers.NewVendorHandler(vendor.NewService(store, logger), logger),
		handlers.NewTenderHandler(tender.NewService(store, publisher, cfg.TenderEventsTopic, logger), logger),
		handlers.NewOrderHandler(order.NewService(store, publisher, cfg.OrderEventsTopic, logger), logger),
		handlers.NewMaintenanceHandler(maintenance.NewService(store, publisher, cfg.MaintenanceEventsTopic, logger), logger),
		handlers.NewAnalyticsHandler(analytics.NewService(store, logger), logger),
	)

	addr := ":" + envOr("PORT", "8080")
	logger.Info("API server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
