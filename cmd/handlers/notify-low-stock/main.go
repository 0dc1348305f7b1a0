package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"

	"github.com/stockpile-io/stockpile/handlers/lowstock"
)

func main() {
	sess := session.Must(session.NewSession())

	h := &lowstock.Handler{
		SNS:      sns.New(sess),
		TopicARN: os.Getenv("TOPIC_ARN"),
	}

	lambda.Start(h.Handle)
}
