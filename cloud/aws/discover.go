package aws

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sns"
)

// Discovery by naming convention. Teardown uses these to find pipeline
// resources even when the local registry is gone; any resource sharing a
// prefix is caught, which is the point.

func (p *Provider) listBucketsWithPrefix(prefix string) ([]string, error) {
	resp, err := p.S3.ListBuckets(&s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	var names []string
	for _, b := range resp.Buckets {
		if name := aws.StringValue(b.Name); strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (p *Provider) listFunctionsWithPrefix(prefix string) ([]string, error) {
	var names []string

	err := p.Lambda.ListFunctionsPages(&lambda.ListFunctionsInput{},
		func(page *lambda.ListFunctionsOutput, lastPage bool) bool {
			for _, fn := range page.Functions {
				if name := aws.StringValue(fn.FunctionName); strings.HasPrefix(name, prefix) {
					names = append(names, name)
				}
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Provider) listTopicsWithPrefix(prefix string) ([]string, error) {
	var arns []string

	err := p.SNS.ListTopicsPages(&sns.ListTopicsInput{},
		func(page *sns.ListTopicsOutput, lastPage bool) bool {
			for _, t := range page.Topics {
				arn := aws.StringValue(t.TopicArn)
				name := arn[strings.LastIndex(arn, ":")+1:]
				if strings.HasPrefix(name, prefix) {
					arns = append(arns, arn)
				}
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return arns, nil
}

func (p *Provider) listApisNamed(name string) ([]string, error) {
	resp, err := p.ApiGw.GetApis(&apigatewayv2.GetApisInput{})
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, a := range resp.Items {
		if aws.StringValue(a.Name) == name {
			ids = append(ids, aws.StringValue(a.ApiId))
		}
	}
	return ids, nil
}
