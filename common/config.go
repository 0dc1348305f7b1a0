package common

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Fixed base names for every resource the pipeline owns. Suffixed names are
// derived from these, and teardown discovers resources by the same bases.
const (
	IngestBucketBase = "inventory-uploads"
	WebBucketBase    = "inventory-web"
	TableName        = "Inventory"
	TopicBase        = "NoStock"

	LoaderFunctionBase   = "load_inventory"
	QueryFunctionBase    = "get_inventory_api"
	NotifierFunctionBase = "notify_low_stock"
)

type Config struct {
	Region            string
	RoleName          string
	SubscriptionEmail string
	DistDir           string
	RegistryPath      string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables")
	}

	return &Config{
		Region:            getEnv("AWS_DEFAULT_REGION", "us-east-1"),
		RoleName:          getEnv("LAMBDA_ROLE_NAME", "LabRole"),
		SubscriptionEmail: getEnv("SNS_SUBSCRIPTION_EMAIL", ""),
		DistDir:           getEnv("STOCKPILE_DIST_DIR", "dist"),
		RegistryPath:      getEnv("STOCKPILE_REGISTRY", "aws_resources.yml"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
