package aws

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	log "github.com/sirupsen/logrus"
)

// EnsureTable creates the inventory table if absent and blocks until it is
// ACTIVE. Rows are keyed Store (partition) + Item (sort); the change stream
// carries both old and new images for the notifier.
func (p *Provider) EnsureTable(name string) (tableARN, streamARN string, err error) {
	_, err = p.DynamoDB.CreateTable(&dynamodb.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String("Store"), KeyType: aws.String(dynamodb.KeyTypeHash)},
			{AttributeName: aws.String("Item"), KeyType: aws.String(dynamodb.KeyTypeRange)},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String("Store"), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
			{AttributeName: aws.String("Item"), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
		},
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
		StreamSpecification: &dynamodb.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: aws.String(dynamodb.StreamViewTypeNewAndOldImages),
		},
	})

	switch {
	case err == nil:
		log.Infof("[DDB] creating table %s (waiting for ACTIVE)", name)
		if werr := p.DynamoDB.WaitUntilTableExists(&dynamodb.DescribeTableInput{TableName: aws.String(name)}); werr != nil {
			return "", "", werr
		}
	case isAlreadyExists(err):
		log.Infof("[DDB] table already exists: %s", name)
	default:
		return "", "", err
	}

	desc, err := p.DynamoDB.DescribeTable(&dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		return "", "", err
	}

	return aws.StringValue(desc.Table.TableArn), aws.StringValue(desc.Table.LatestStreamArn), nil
}

// DeleteTable removes the table and blocks until it is confirmed gone.
func (p *Provider) DeleteTable(name string) error {
	_, err := p.DynamoDB.DeleteTable(&dynamodb.DeleteTableInput{TableName: aws.String(name)})
	if err != nil {
		if isNotFound(err) {
			log.Infof("[DDB] table not found (already deleted): %s", name)
			return nil
		}
		return err
	}

	log.Infof("[DDB] deleting table: %s", name)
	if err := p.DynamoDB.WaitUntilTableNotExists(&dynamodb.DescribeTableInput{TableName: aws.String(name)}); err != nil {
		return err
	}

	log.Infof("[DDB] table deleted: %s", name)
	return nil
}
