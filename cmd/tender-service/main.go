package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"

	"karmdeep-backend/internal/config"
	httprouter "karmdeep-backend/internal/interfaces/http"
	"karmdeep-backend/internal/interfaces/http/handlers"
	"karmdeep-backend/internal/messaging/sns"
	"karmdeep-backend/internal/repository/ddb"
	"karmdeep-backend/internal/service/tender"
)

var chiLambda *chiadapter.ChiLambdaV2

func init() {
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("unable to build logger: %v", err)
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Fatal("unable to load SDK config", zap.Error(err))
	}

	store := ddb.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName, cfg.GSI1Name, cfg.GSI2Name, logger)
	publisher := sns.NewPublisher(awssns.NewFromConfig(awsCfg), logger)
	svc := tender.NewService(store, publisher, cfg.TenderEventsTopic, logger)

	r := httprouter.NewRouter(logger, handlers.NewTenderHandler(svc, logger))
	chiLambda = chiadapter.NewV2(r)

	logger.Info("Tender service initialized")
}

func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
