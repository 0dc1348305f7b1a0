package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/stockpile-io/stockpile/handlers/loadinventory"
)

func main() {
	sess := session.Must(session.NewSession())

	h := &loadinventory.Handler{
		S3:       s3.New(sess),
		DynamoDB: dynamodb.New(sess),
		Table:    os.Getenv("TABLE_NAME"),
	}

	lambda.Start(h.Handle)
}
