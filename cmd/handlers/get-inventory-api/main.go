package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/stockpile-io/stockpile/handlers/inventoryapi"
)

func main() {
	sess := session.Must(session.NewSession())

	h := &inventoryapi.Handler{
		DynamoDB: dynamodb.New(sess),
		Table:    os.Getenv("TABLE_NAME"),
	}

	lambda.Start(h.Handle)
}
