// Package lowstock watches the Inventory table's change stream and publishes
// a warning to the notification topic whenever a newly inserted row falls
// below the stock threshold.
package lowstock

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	log "github.com/sirupsen/logrus"
)

// Threshold is the count below which a store runs low on an item.
const Threshold = 5

type Handler struct {
	SNS      snsiface.SNSAPI
	TopicARN string
}

func (h *Handler) Handle(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if record.EventName != "INSERT" {
			continue
		}

		image := record.Change.NewImage

		countAttr, ok := image["Count"]
		if !ok || countAttr.DataType() != events.DataTypeNumber {
			log.Warnf("record %s: missing or non-numeric Count, skipping", record.EventID)
			continue
		}
		count, err := countAttr.Integer()
		if err != nil {
			log.Warnf("record %s: unreadable Count: %v", record.EventID, err)
			continue
		}

		if count >= Threshold {
			continue
		}

		store, item := image["Store"], image["Item"]
		if store.DataType() != events.DataTypeString || item.DataType() != events.DataTypeString {
			log.Warnf("record %s: missing Store or Item, skipping", record.EventID)
			continue
		}

		message := fmt.Sprintf("Low stock: %s in %s (%d left)", item.String(), store.String(), count)

		if _, err := h.SNS.PublishWithContext(ctx, &sns.PublishInput{
			TopicArn: aws.String(h.TopicARN),
			Message:  aws.String(message),
		}); err != nil {
			return fmt.Errorf("publishing low stock warning: %v", err)
		}

		log.Infof("low stock warning published for %s/%s (%d left)", store.String(), item.String(), count)
	}

	return nil
}
