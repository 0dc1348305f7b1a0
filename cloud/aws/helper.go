package aws

import (
	"time"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/lambda"
	log "github.com/sirupsen/logrus"
)

// isAlreadyExists reports whether a create call failed only because the
// resource is already there. Such failures count as success: the create may
// race a concurrent existence check.
func isAlreadyExists(err error) bool {
	return isAwsErrCode(err,
		dynamodb.ErrCodeResourceInUseException,
		lambda.ErrCodeResourceConflictException,
		"BucketAlreadyOwnedByYou",
		"BucketAlreadyExists",
	)
}

// isNotFound reports whether a delete or describe call failed only because
// the resource is already gone.
func isNotFound(err error) bool {
	return isAwsErrCode(err,
		"NotFound",
		"NoSuchBucket",
		"NoSuchBucketPolicy",
		"NoSuchPublicAccessBlockConfiguration",
		"NotFoundException",
		dynamodb.ErrCodeResourceNotFoundException,
		iam.ErrCodeNoSuchEntityException,
	)
}

func isAwsErrCode(err error, codes ...string) bool {
	awsErr, ok := err.(awserr.Error)
	if !ok {
		return false
	}

	for _, code := range codes {
		if awsErr.Code() == code {
			return true
		}
	}
	return false
}

// retryTransient runs fn until it succeeds, with a doubling delay between
// attempts. Used where a dependent call can be rejected until an earlier
// grant has propagated through the provider.
func retryTransient(attempts int, delay time.Duration, fn func() error) error {
	var err error

	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}

		log.Debugf("transient failure (attempt %d/%d): %v", i+1, attempts, err)
		time.Sleep(delay)
		delay *= 2
	}

	return err
}
