package aws

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

var (
	putNotificationAttempts = 6
	putNotificationDelay    = 2 * time.Second
)

// WireStorageTrigger grants the ingest bucket permission to invoke the loader
// function and installs the bucket notification for created .csv objects.
// The permission grant propagates asynchronously, so the notification call is
// retried until the provider accepts it.
func (p *Provider) WireStorageTrigger(bucket, functionName, functionARN string) error {
	statementID := fmt.Sprintf("s3-invoke-permission-%s-%s", functionName, bucket)

	_, err := p.Lambda.AddPermission(&lambda.AddPermissionInput{
		FunctionName: aws.String(functionName),
		StatementId:  aws.String(statementID),
		Action:       aws.String("lambda:InvokeFunction"),
		Principal:    aws.String("s3.amazonaws.com"),
		// restrict invocation to this bucket only
		SourceArn: aws.String("arn:aws:s3:::" + bucket),
	})
	if err != nil {
		if !isAlreadyExists(err) {
			return fmt.Errorf("adding S3 invocation permission for %s: %v", functionName, err)
		}
		log.Infof("[Lambda] S3 invocation permission already exists for %s", functionName)
	} else {
		log.Infof("[Lambda] S3 invocation permission granted to %s", functionName)
	}

	config := &s3.NotificationConfiguration{
		LambdaFunctionConfigurations: []*s3.LambdaFunctionConfiguration{
			{
				LambdaFunctionArn: aws.String(functionARN),
				Events:            []*string{aws.String("s3:ObjectCreated:*")},
				Filter: &s3.NotificationConfigurationFilter{
					Key: &s3.KeyFilter{
						FilterRules: []*s3.FilterRule{
							{Name: aws.String("suffix"), Value: aws.String(".csv")},
						},
					},
				},
			},
		},
	}

	err = retryTransient(putNotificationAttempts, putNotificationDelay, func() error {
		_, perr := p.S3.PutBucketNotificationConfiguration(&s3.PutBucketNotificationConfigurationInput{
			Bucket:                    aws.String(bucket),
			NotificationConfiguration: config,
		})
		return perr
	})
	if err != nil {
		return fmt.Errorf("configuring notification on %s: %v", bucket, err)
	}

	log.Infof("[S3] trigger s3:ObjectCreated:* (*.csv) configured for %s", functionName)
	return nil
}

// WireStreamTrigger upserts the event source mapping binding the table's
// change stream to the notifier function. An existing mapping for the
// (stream, function) pair is updated in place, never duplicated.
func (p *Provider) WireStreamTrigger(streamARN, functionName string, batchSize int64, enabled bool) (string, error) {
	existing, err := p.Lambda.ListEventSourceMappings(&lambda.ListEventSourceMappingsInput{
		EventSourceArn: aws.String(streamARN),
		FunctionName:   aws.String(functionName),
	})
	if err != nil {
		return "", err
	}

	if len(existing.EventSourceMappings) > 0 {
		id := aws.StringValue(existing.EventSourceMappings[0].UUID)

		if _, err := p.Lambda.UpdateEventSourceMapping(&lambda.UpdateEventSourceMappingInput{
			UUID:      aws.String(id),
			Enabled:   aws.Bool(enabled),
			BatchSize: aws.Int64(batchSize),
		}); err != nil {
			return "", err
		}

		log.Infof("[Lambda] stream trigger updated (UUID=%s)", id)
		return id, nil
	}

	resp, err := p.Lambda.CreateEventSourceMapping(&lambda.CreateEventSourceMappingInput{
		EventSourceArn:   aws.String(streamARN),
		FunctionName:     aws.String(functionName),
		Enabled:          aws.Bool(enabled),
		BatchSize:        aws.Int64(batchSize),
		StartingPosition: aws.String(lambda.EventSourcePositionLatest),
	})
	if err != nil {
		return "", err
	}

	id := aws.StringValue(resp.UUID)
	log.Infof("[Lambda] stream trigger created (UUID=%s)", id)
	return id, nil
}
