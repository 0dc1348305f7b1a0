// Package aws provisions and tears down the inventory pipeline's resources
// through the AWS control plane: two S3 buckets, the Inventory DynamoDB table,
// three Lambda functions, an SNS topic, the triggers wiring them together and
// an HTTP API in front of the query function.
package aws

import (
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/apigatewayv2/apigatewayv2iface"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
)

// Provider bundles the service clients the workflows need. The fields are the
// SDK's interface types so tests can substitute fakes per call.
type Provider struct {
	Region string

	S3       s3iface.S3API
	DynamoDB dynamodbiface.DynamoDBAPI
	Lambda   lambdaiface.LambdaAPI
	SNS      snsiface.SNSAPI
	IAM      iamiface.IAMAPI
	STS      stsiface.STSAPI
	ApiGw    apigatewayv2iface.ApiGatewayV2API
}

func NewProvider(region string) *Provider {
	config := &aws.Config{}

	if region != "" {
		config.Region = aws.String(region)
	}

	if e := os.Getenv("AWS_ENDPOINT"); e != "" {
		config.Endpoint = aws.String(e)
	}

	sess := session.Must(session.NewSession(config))

	return &Provider{
		Region:   region,
		S3:       s3.New(sess),
		DynamoDB: dynamodb.New(sess),
		Lambda:   lambda.New(sess),
		SNS:      sns.New(sess),
		IAM:      iam.New(sess),
		STS:      sts.New(sess),
		ApiGw:    apigatewayv2.New(sess),
	}
}
