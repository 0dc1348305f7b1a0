// Package inventoryapi serves inventory queries over the HTTP API: all rows,
// or the rows of one store when the path carries a store parameter.
package inventoryapi

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	DynamoDB dynamodbiface.DynamoDBAPI
	Table    string
}

// InventoryRow is the response shape. Count is a float64 so integral counts
// serialize as plain JSON integers and fractional ones keep their point.
type InventoryRow struct {
	Store string  `json:"Store"`
	Item  string  `json:"Item"`
	Count float64 `json:"Count"`
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	store := req.PathParameters["store"]

	var items []map[string]*dynamodb.AttributeValue

	if store != "" {
		expr, err := expression.NewBuilder().
			WithKeyCondition(expression.Key("Store").Equal(expression.Value(store))).
			Build()
		if err != nil {
			return serverError(err)
		}

		out, err := h.DynamoDB.QueryWithContext(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(h.Table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			return serverError(err)
		}
		items = out.Items
	} else {
		out, err := h.DynamoDB.ScanWithContext(ctx, &dynamodb.ScanInput{
			TableName: aws.String(h.Table),
		})
		if err != nil {
			return serverError(err)
		}
		items = out.Items
	}

	rows := make([]InventoryRow, 0, len(items))
	if err := dynamodbattribute.UnmarshalListOfMaps(items, &rows); err != nil {
		return serverError(err)
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return serverError(err)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: 200,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

func serverError(err error) (events.APIGatewayV2HTTPResponse, error) {
	log.Errorf("inventory query failed: %v", err)

	return events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"message":"internal error"}`,
	}, nil
}
