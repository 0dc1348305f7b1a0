package main

import (
	_ "embed"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/stockpile-io/stockpile/cloud/aws"
	"github.com/stockpile-io/stockpile/cmd/stdcli"
	"github.com/stockpile-io/stockpile/common"
	"github.com/stockpile-io/stockpile/registry"
)

//go:embed web/index.html
var indexDocument []byte

func init() {
	stdcli.AddCommand(&cli.Command{
		Name:   "provision",
		Usage:  "create the inventory pipeline resources in your AWS account",
		Action: cmdProvision,
	})
}

func cmdProvision(c *cli.Context) error {
	cfg := common.LoadConfig()
	provider := aws.NewProvider(cfg.Region)

	rec, err := provider.Provision(aws.ProvisionOptions{
		RoleName:          cfg.RoleName,
		SubscriptionEmail: cfg.SubscriptionEmail,
		DistDir:           cfg.DistDir,
		IndexDocument:     indexDocument,
	})
	if err != nil {
		return err
	}

	// the infrastructure is live whether or not the local record sticks
	if err := registry.Save(cfg.RegistryPath, rec); err != nil {
		log.Warnf("could not save the resource registry to %s: %v", cfg.RegistryPath, err)
	}

	fmt.Println("\nInfrastructure deployment complete.")
	fmt.Printf("S3 ingest:  s3://%s\n", rec.IngestBucket)
	fmt.Printf("S3 website: %s\n", rec.WebsiteURL)
	fmt.Printf("DynamoDB:   %s\n", rec.Table)
	fmt.Printf("SNS topic:  %s\n", rec.TopicARN)
	fmt.Printf("HTTP API:   %s\n", rec.ApiEndpoint)
	fmt.Printf("IAM role:   %s\n", rec.RoleName)
	return nil
}
