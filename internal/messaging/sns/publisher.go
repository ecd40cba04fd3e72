// Package sns implements the notification publisher on AWS SNS.
package sns

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"karmdeep-backend/internal/messaging"
)

// SNSPublisher publishes notification events to SNS topics.
type SNSPublisher struct {
	client *sns.Client
	logger *zap.Logger
}

// NewPublisher creates an SNS-backed publisher.
func NewPublisher(client *sns.Client, logger *zap.Logger) messaging.Publisher {
	return &SNSPublisher{
		client: client,
		logger: logger,
	}
}

// Publish sends one event to the topic. An empty topicARN drops the event,
// so environments without a topic configured keep working.
func (p *SNSPublisher) Publish(ctx context.Context, topicARN, subject string, event messaging.Event) (string, error) {
	if topicARN == "" {
		p.logger.Debug("No topic configured, dropping event",
			zap.String("eventType", event.EventType),
		)
		return "", nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event",
			zap.Error(err),
			zap.String("eventType", event.EventType),
		)
		return "", err
	}

	result, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.Error(err),
			zap.String("eventType", event.EventType),
			zap.String("topicArn", topicARN),
		)
		return "", err
	}

	messageID := aws.ToString(result.MessageId)
	p.logger.Info("Published event",
		zap.String("eventType", event.EventType),
		zap.String("messageId", messageID),
	)
	return messageID, nil
}
