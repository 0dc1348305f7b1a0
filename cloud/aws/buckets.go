package aws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

// bucketExists probes the bucket with HeadBucket. Any error, including a
// permission error, counts as "not usable": the caller will attempt a create
// and rely on already-exists handling there.
func (p *Provider) bucketExists(name string) bool {
	_, err := p.S3.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(name)})
	return err == nil
}

func (p *Provider) createBucket(name string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}

	// us-east-1 is the one region that rejects an explicit LocationConstraint
	if p.Region != "" && p.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(p.Region),
		}
	}

	if _, err := p.S3.CreateBucket(input); err != nil && !isAlreadyExists(err) {
		return err
	}
	return nil
}

// EnsureBucket creates the bucket if absent. For the website bucket it also
// disables the public-access block, applies a public-read policy, enables
// static hosting and leaves the bucket ready for an index document.
func (p *Provider) EnsureBucket(name string, website bool) error {
	if p.bucketExists(name) {
		log.Infof("[S3] bucket already exists: s3://%s", name)
	} else {
		if err := p.createBucket(name); err != nil {
			return fmt.Errorf("creating bucket %s: %v", name, err)
		}
		log.Infof("[S3] bucket created: s3://%s", name)
	}

	if !website {
		return nil
	}

	if err := p.disablePublicAccessBlock(name); err != nil {
		log.Warnf("[S3] could not disable the public access block on %s (may need s3:PutPublicAccessBlock): %v", name, err)
	}

	if err := p.applyPublicReadPolicy(name); err != nil {
		return fmt.Errorf("applying public read policy to %s: %v", name, err)
	}

	_, err := p.S3.PutBucketWebsite(&s3.PutBucketWebsiteInput{
		Bucket: aws.String(name),
		WebsiteConfiguration: &s3.WebsiteConfiguration{
			IndexDocument: &s3.IndexDocument{Suffix: aws.String("index.html")},
		},
	})
	if err != nil {
		return fmt.Errorf("enabling website hosting on %s: %v", name, err)
	}

	log.Infof("[S3] static website hosting enabled for s3://%s", name)
	return nil
}

func (p *Provider) disablePublicAccessBlock(name string) error {
	_, err := p.S3.PutPublicAccessBlock(&s3.PutPublicAccessBlockInput{
		Bucket: aws.String(name),
		PublicAccessBlockConfiguration: &s3.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(false),
			IgnorePublicAcls:      aws.Bool(false),
			BlockPublicPolicy:     aws.Bool(false),
			RestrictPublicBuckets: aws.Bool(false),
		},
	})
	if err == nil {
		log.Infof("[S3] public access block disabled for s3://%s", name)
	}
	return err
}

func (p *Provider) applyPublicReadPolicy(name string) error {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Sid":       "PublicReadGetObject",
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    []string{"s3:GetObject"},
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", name),
			},
		},
	}

	doc, err := json.Marshal(policy)
	if err != nil {
		return err
	}

	if _, err := p.S3.PutBucketPolicy(&s3.PutBucketPolicyInput{
		Bucket: aws.String(name),
		Policy: aws.String(string(doc)),
	}); err != nil {
		return err
	}

	log.Infof("[S3] public GetObject policy applied to s3://%s", name)
	return nil
}

func (p *Provider) UploadObject(bucket, key string, body []byte, contentType string) error {
	_, err := p.S3.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

func (p *Provider) websiteURL(bucket string) string {
	region := p.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("http://%s.s3-website-%s.amazonaws.com", bucket, region)
}

// DeleteBucket removes everything that would block deletion (notification
// config, policy, public-access block, every object and object version) and
// then deletes the bucket itself. The provider rejects deleting a non-empty
// bucket, so emptying must fully complete first.
func (p *Provider) DeleteBucket(name string) error {
	if _, err := p.S3.PutBucketNotificationConfiguration(&s3.PutBucketNotificationConfigurationInput{
		Bucket:                    aws.String(name),
		NotificationConfiguration: &s3.NotificationConfiguration{},
	}); err != nil && !isNotFound(err) {
		log.Debugf("[S3] clearing notification config on %s: %v", name, err)
	}

	if _, err := p.S3.DeleteBucketPolicy(&s3.DeleteBucketPolicyInput{Bucket: aws.String(name)}); err != nil && !isNotFound(err) {
		log.Debugf("[S3] deleting bucket policy on %s: %v", name, err)
	}

	if _, err := p.S3.DeletePublicAccessBlock(&s3.DeletePublicAccessBlockInput{Bucket: aws.String(name)}); err != nil && !isNotFound(err) {
		log.Debugf("[S3] deleting public access block on %s: %v", name, err)
	}

	if err := p.emptyBucket(name); err != nil {
		if isNotFound(err) {
			log.Infof("[S3] bucket not found (already deleted): %s", name)
			return nil
		}
		return fmt.Errorf("emptying bucket %s: %v", name, err)
	}
	log.Infof("[S3] objects cleared from: %s", name)

	if _, err := p.S3.DeleteBucket(&s3.DeleteBucketInput{Bucket: aws.String(name)}); err != nil {
		if isNotFound(err) {
			log.Infof("[S3] bucket not found (already deleted): %s", name)
			return nil
		}
		return err
	}

	log.Infof("[S3] bucket deleted: %s", name)
	return nil
}

func (p *Provider) emptyBucket(name string) error {
	var delErr error

	err := p.S3.ListObjectsV2Pages(&s3.ListObjectsV2Input{Bucket: aws.String(name)},
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			objects := make([]*s3.ObjectIdentifier, 0, len(page.Contents))
			for _, o := range page.Contents {
				objects = append(objects, &s3.ObjectIdentifier{Key: o.Key})
			}
			delErr = p.deleteObjects(name, objects)
			return delErr == nil
		})
	if err != nil {
		return err
	}
	if delErr != nil {
		return delErr
	}

	// versioned history and delete markers survive plain object deletion
	err = p.S3.ListObjectVersionsPages(&s3.ListObjectVersionsInput{Bucket: aws.String(name)},
		func(page *s3.ListObjectVersionsOutput, lastPage bool) bool {
			objects := make([]*s3.ObjectIdentifier, 0, len(page.Versions)+len(page.DeleteMarkers))
			for _, v := range page.Versions {
				objects = append(objects, &s3.ObjectIdentifier{Key: v.Key, VersionId: v.VersionId})
			}
			for _, m := range page.DeleteMarkers {
				objects = append(objects, &s3.ObjectIdentifier{Key: m.Key, VersionId: m.VersionId})
			}
			delErr = p.deleteObjects(name, objects)
			return delErr == nil
		})
	if err != nil {
		return err
	}
	return delErr
}

func (p *Provider) deleteObjects(bucket string, objects []*s3.ObjectIdentifier) error {
	if len(objects) == 0 {
		return nil
	}

	resp, err := p.S3.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", aws.StringValue(e.Key), aws.StringValue(e.Message)))
		}
		return fmt.Errorf("some objects could not be deleted: %s", strings.Join(msgs, "; "))
	}
	return nil
}
