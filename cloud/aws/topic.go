package aws

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sns"
	log "github.com/sirupsen/logrus"
)

// EnsureTopic creates or reuses the notification topic (CreateTopic returns
// the existing ARN for a known name) and optionally subscribes an email
// endpoint. Subscription problems are warnings: the topic itself is live.
func (p *Provider) EnsureTopic(name, email string) (string, error) {
	resp, err := p.SNS.CreateTopic(&sns.CreateTopicInput{Name: aws.String(name)})
	if err != nil {
		return "", err
	}

	arn := aws.StringValue(resp.TopicArn)
	log.Infof("[SNS] topic ready: %s", arn)

	if email != "" {
		if err := p.subscribeEmail(arn, email); err != nil {
			log.Warnf("[SNS] could not subscribe %s: %v", email, err)
		}
	}

	return arn, nil
}

func (p *Provider) subscribeEmail(topicARN, email string) error {
	subs, err := p.SNS.ListSubscriptionsByTopic(&sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(topicARN),
	})
	if err == nil {
		for _, s := range subs.Subscriptions {
			if aws.StringValue(s.Endpoint) == email {
				log.Infof("[SNS] email %s is already subscribed", email)
				return nil
			}
		}
	}

	if _, err := p.SNS.Subscribe(&sns.SubscribeInput{
		TopicArn:              aws.String(topicARN),
		Protocol:              aws.String("email"),
		Endpoint:              aws.String(email),
		ReturnSubscriptionArn: aws.Bool(true),
	}); err != nil {
		return err
	}

	log.Infof("[SNS] email %s subscribed (pending confirmation)", email)
	return nil
}

func (p *Provider) DeleteTopic(arn string) error {
	if _, err := p.SNS.DeleteTopic(&sns.DeleteTopicInput{TopicArn: aws.String(arn)}); err != nil {
		if isNotFound(err) {
			log.Infof("[SNS] topic not found (already deleted): %s", arn)
			return nil
		}
		return err
	}

	log.Infof("[SNS] topic deleted: %s", arn)
	return nil
}
