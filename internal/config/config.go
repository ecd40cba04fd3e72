package config

import (
	"os"
)

// Config carries the environment-provided settings shared by every service.
type Config struct {
	TableName string
	GSI1Name  string
	GSI2Name  string
	Region    string

	// SNS topic ARNs for event notifications. An empty ARN disables
	// publishing for that topic.
	OrderEventsTopic       string
	TenderEventsTopic      string
	MaintenanceEventsTopic string

	Environment string
	LogLevel    string
}

// LoadConfig reads the configuration from environment variables, falling
// back to local-development defaults.
func LoadConfig() Config {
	return Config{
		TableName: getEnv("TABLE_NAME", "karmdeep-dev"),
		GSI1Name:  getEnv("GSI1_NAME", "GSI1"),
		GSI2Name:  getEnv("GSI2_NAME", "GSI2"),
		Region:    getEnv("AWS_REGION", "ap-south-1"),

		OrderEventsTopic:       os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		TenderEventsTopic:      os.Getenv("TENDER_EVENTS_TOPIC_ARN"),
		MaintenanceEventsTopic: os.Getenv("MAINTENANCE_EVENTS_TOPIC_ARN"),

		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
