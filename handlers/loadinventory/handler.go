// Package loadinventory ingests uploaded CSV inventory files into the
// Inventory table. It runs as the Lambda behind the ingest bucket's
// object-created notification.
package loadinventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	S3       s3iface.S3API
	DynamoDB dynamodbiface.DynamoDBAPI
	Table    string
}

// Handle reads each uploaded object and writes one table row per CSV record.
// A malformed row aborts the whole batch; the event source redelivers it.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) error {
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key

		obj, err := h.S3.GetObjectWithContext(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("reading s3://%s/%s: %v", bucket, key, err)
		}

		rows, err := parseRows(obj.Body)
		obj.Body.Close()
		if err != nil {
			return fmt.Errorf("parsing s3://%s/%s: %v", bucket, key, err)
		}

		for _, row := range rows {
			if _, err := h.DynamoDB.PutItemWithContext(ctx, &dynamodb.PutItemInput{
				TableName: aws.String(h.Table),
				Item: map[string]*dynamodb.AttributeValue{
					"Store": {S: aws.String(row.Store)},
					"Item":  {S: aws.String(row.Item)},
					"Count": {N: aws.String(strconv.Itoa(row.Count))},
				},
			}); err != nil {
				return fmt.Errorf("writing row %s/%s: %v", row.Store, row.Item, err)
			}
		}

		log.Infof("loaded %d rows from s3://%s/%s", len(rows), bucket, key)
	}

	return nil
}

type inventoryRow struct {
	Store string
	Item  string
	Count int
}

func parseRows(r io.Reader) ([]inventoryRow, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"store", "item", "count"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var rows []inventoryRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		count, err := strconv.Atoi(strings.TrimSpace(fields[columns["count"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid count %q", len(rows)+2, fields[columns["count"]])
		}

		rows = append(rows, inventoryRow{
			Store: fields[columns["store"]],
			Item:  fields[columns["item"]],
			Count: count,
		})
	}

	return rows, nil
}
