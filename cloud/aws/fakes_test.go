package aws

import (
	"fmt"

	awssdk "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/apigatewayv2/apigatewayv2iface"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
)

// callLog records the sequence of control-plane calls a test provokes, so
// ordering invariants can be asserted.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) index(call string) int {
	for i, c := range l.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func (l *callLog) contains(call string) bool {
	return l.index(call) >= 0
}

type fakeS3 struct {
	s3iface.S3API
	log *callLog

	headBucketErr error
	putNotifErrs  []error // one per call; nil entry or exhausted list means success
	putNotifCalls int

	objects       []*s3.Object
	versions      []*s3.ObjectVersion
	deleteMarkers []*s3.DeleteMarkerEntry

	deleteObjectsErr error
	deleteBucketErr  error
	buckets          []string
}

func (f *fakeS3) HeadBucket(in *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
	f.log.add("HeadBucket:%s", awssdk.StringValue(in.Bucket))
	if f.headBucketErr != nil {
		return nil, f.headBucketErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
	f.log.add("CreateBucket:%s", awssdk.StringValue(in.Bucket))
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) PutPublicAccessBlock(in *s3.PutPublicAccessBlockInput) (*s3.PutPublicAccessBlockOutput, error) {
	f.log.add("PutPublicAccessBlock")
	return &s3.PutPublicAccessBlockOutput{}, nil
}

func (f *fakeS3) PutBucketPolicy(in *s3.PutBucketPolicyInput) (*s3.PutBucketPolicyOutput, error) {
	f.log.add("PutBucketPolicy")
	return &s3.PutBucketPolicyOutput{}, nil
}

func (f *fakeS3) PutBucketWebsite(in *s3.PutBucketWebsiteInput) (*s3.PutBucketWebsiteOutput, error) {
	f.log.add("PutBucketWebsite")
	return &s3.PutBucketWebsiteOutput{}, nil
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.log.add("PutObject:%s", awssdk.StringValue(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) PutBucketNotificationConfiguration(in *s3.PutBucketNotificationConfigurationInput) (*s3.PutBucketNotificationConfigurationOutput, error) {
	f.log.add("PutBucketNotificationConfiguration:%s", awssdk.StringValue(in.Bucket))
	call := f.putNotifCalls
	f.putNotifCalls++
	if call < len(f.putNotifErrs) && f.putNotifErrs[call] != nil {
		return nil, f.putNotifErrs[call]
	}
	return &s3.PutBucketNotificationConfigurationOutput{}, nil
}

func (f *fakeS3) DeleteBucketPolicy(in *s3.DeleteBucketPolicyInput) (*s3.DeleteBucketPolicyOutput, error) {
	f.log.add("DeleteBucketPolicy")
	return &s3.DeleteBucketPolicyOutput{}, nil
}

func (f *fakeS3) DeletePublicAccessBlock(in *s3.DeletePublicAccessBlockInput) (*s3.DeletePublicAccessBlockOutput, error) {
	f.log.add("DeletePublicAccessBlock")
	return &s3.DeletePublicAccessBlockOutput{}, nil
}

func (f *fakeS3) ListObjectsV2Pages(in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	fn(&s3.ListObjectsV2Output{Contents: f.objects}, true)
	return nil
}

func (f *fakeS3) ListObjectVersionsPages(in *s3.ListObjectVersionsInput, fn func(*s3.ListObjectVersionsOutput, bool) bool) error {
	fn(&s3.ListObjectVersionsOutput{Versions: f.versions, DeleteMarkers: f.deleteMarkers}, true)
	return nil
}

func (f *fakeS3) DeleteObjects(in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
	f.log.add("DeleteObjects:%d", len(in.Delete.Objects))
	if f.deleteObjectsErr != nil {
		return nil, f.deleteObjectsErr
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) DeleteBucket(in *s3.DeleteBucketInput) (*s3.DeleteBucketOutput, error) {
	f.log.add("DeleteBucket:%s", awssdk.StringValue(in.Bucket))
	if f.deleteBucketErr != nil {
		return nil, f.deleteBucketErr
	}
	return &s3.DeleteBucketOutput{}, nil
}

func (f *fakeS3) ListBuckets(in *s3.ListBucketsInput) (*s3.ListBucketsOutput, error) {
	out := &s3.ListBucketsOutput{}
	for _, name := range f.buckets {
		out.Buckets = append(out.Buckets, &s3.Bucket{Name: awssdk.String(name)})
	}
	return out, nil
}

type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI
	log *callLog

	createErr error
	deleteErr error
	tableARN  string
	streamARN string
}

func (f *fakeDynamoDB) CreateTable(in *dynamodb.CreateTableInput) (*dynamodb.CreateTableOutput, error) {
	f.log.add("CreateTable:%s", awssdk.StringValue(in.TableName))
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *fakeDynamoDB) WaitUntilTableExists(in *dynamodb.DescribeTableInput) error {
	f.log.add("WaitUntilTableExists")
	return nil
}

func (f *fakeDynamoDB) DescribeTable(in *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
	f.log.add("DescribeTable")
	return &dynamodb.DescribeTableOutput{
		Table: &dynamodb.TableDescription{
			TableArn:        awssdk.String(f.tableARN),
			LatestStreamArn: awssdk.String(f.streamARN),
		},
	}, nil
}

func (f *fakeDynamoDB) DeleteTable(in *dynamodb.DeleteTableInput) (*dynamodb.DeleteTableOutput, error) {
	f.log.add("DeleteTable:%s", awssdk.StringValue(in.TableName))
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &dynamodb.DeleteTableOutput{}, nil
}

func (f *fakeDynamoDB) WaitUntilTableNotExists(in *dynamodb.DescribeTableInput) error {
	f.log.add("WaitUntilTableNotExists")
	return nil
}

type fakeLambda struct {
	lambdaiface.LambdaAPI
	log *callLog

	createErr        error
	addPermissionErr error
	mappings         []*lambda.EventSourceMappingConfiguration
	functions        []string
	functionARN      string
	deleteErr        error
}

func (f *fakeLambda) CreateFunction(in *lambda.CreateFunctionInput) (*lambda.FunctionConfiguration, error) {
	f.log.add("CreateFunction:%s", awssdk.StringValue(in.FunctionName))
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &lambda.FunctionConfiguration{}, nil
}

func (f *fakeLambda) UpdateFunctionCode(in *lambda.UpdateFunctionCodeInput) (*lambda.FunctionConfiguration, error) {
	f.log.add("UpdateFunctionCode:%s", awssdk.StringValue(in.FunctionName))
	return &lambda.FunctionConfiguration{}, nil
}

func (f *fakeLambda) WaitUntilFunctionUpdated(in *lambda.GetFunctionConfigurationInput) error {
	f.log.add("WaitUntilFunctionUpdated")
	return nil
}

func (f *fakeLambda) UpdateFunctionConfiguration(in *lambda.UpdateFunctionConfigurationInput) (*lambda.FunctionConfiguration, error) {
	f.log.add("UpdateFunctionConfiguration:%s", awssdk.StringValue(in.FunctionName))
	return &lambda.FunctionConfiguration{}, nil
}

func (f *fakeLambda) GetFunction(in *lambda.GetFunctionInput) (*lambda.GetFunctionOutput, error) {
	f.log.add("GetFunction:%s", awssdk.StringValue(in.FunctionName))
	arn := f.functionARN
	if arn == "" {
		arn = "arn:aws:lambda:us-east-1:123456789012:function:" + awssdk.StringValue(in.FunctionName)
	}
	return &lambda.GetFunctionOutput{
		Configuration: &lambda.FunctionConfiguration{FunctionArn: awssdk.String(arn)},
	}, nil
}

func (f *fakeLambda) AddPermission(in *lambda.AddPermissionInput) (*lambda.AddPermissionOutput, error) {
	f.log.add("AddPermission:%s", awssdk.StringValue(in.Principal))
	if f.addPermissionErr != nil {
		return nil, f.addPermissionErr
	}
	return &lambda.AddPermissionOutput{}, nil
}

func (f *fakeLambda) ListEventSourceMappings(in *lambda.ListEventSourceMappingsInput) (*lambda.ListEventSourceMappingsOutput, error) {
	f.log.add("ListEventSourceMappings")
	return &lambda.ListEventSourceMappingsOutput{EventSourceMappings: f.mappings}, nil
}

func (f *fakeLambda) CreateEventSourceMapping(in *lambda.CreateEventSourceMappingInput) (*lambda.EventSourceMappingConfiguration, error) {
	f.log.add("CreateEventSourceMapping:%s", awssdk.StringValue(in.FunctionName))
	return &lambda.EventSourceMappingConfiguration{UUID: awssdk.String("mapping-uuid-1")}, nil
}

func (f *fakeLambda) UpdateEventSourceMapping(in *lambda.UpdateEventSourceMappingInput) (*lambda.EventSourceMappingConfiguration, error) {
	f.log.add("UpdateEventSourceMapping:%s", awssdk.StringValue(in.UUID))
	return &lambda.EventSourceMappingConfiguration{UUID: in.UUID}, nil
}

func (f *fakeLambda) DeleteEventSourceMapping(in *lambda.DeleteEventSourceMappingInput) (*lambda.EventSourceMappingConfiguration, error) {
	f.log.add("DeleteEventSourceMapping:%s", awssdk.StringValue(in.UUID))
	return &lambda.EventSourceMappingConfiguration{}, nil
}

func (f *fakeLambda) DeleteFunction(in *lambda.DeleteFunctionInput) (*lambda.DeleteFunctionOutput, error) {
	f.log.add("DeleteFunction:%s", awssdk.StringValue(in.FunctionName))
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &lambda.DeleteFunctionOutput{}, nil
}

func (f *fakeLambda) ListFunctionsPages(in *lambda.ListFunctionsInput, fn func(*lambda.ListFunctionsOutput, bool) bool) error {
	out := &lambda.ListFunctionsOutput{}
	for _, name := range f.functions {
		out.Functions = append(out.Functions, &lambda.FunctionConfiguration{FunctionName: awssdk.String(name)})
	}
	fn(out, true)
	return nil
}

type fakeSNS struct {
	snsiface.SNSAPI
	log *callLog

	topicARN      string
	subscriptions []string // subscribed endpoints
	topics        []string // ARNs returned by ListTopicsPages
	deleteErr     error
}

func (f *fakeSNS) CreateTopic(in *sns.CreateTopicInput) (*sns.CreateTopicOutput, error) {
	f.log.add("CreateTopic:%s", awssdk.StringValue(in.Name))
	arn := f.topicARN
	if arn == "" {
		arn = "arn:aws:sns:us-east-1:123456789012:" + awssdk.StringValue(in.Name)
	}
	return &sns.CreateTopicOutput{TopicArn: awssdk.String(arn)}, nil
}

func (f *fakeSNS) ListSubscriptionsByTopic(in *sns.ListSubscriptionsByTopicInput) (*sns.ListSubscriptionsByTopicOutput, error) {
	out := &sns.ListSubscriptionsByTopicOutput{}
	for _, endpoint := range f.subscriptions {
		out.Subscriptions = append(out.Subscriptions, &sns.Subscription{Endpoint: awssdk.String(endpoint)})
	}
	return out, nil
}

func (f *fakeSNS) Subscribe(in *sns.SubscribeInput) (*sns.SubscribeOutput, error) {
	f.log.add("Subscribe:%s", awssdk.StringValue(in.Endpoint))
	return &sns.SubscribeOutput{}, nil
}

func (f *fakeSNS) DeleteTopic(in *sns.DeleteTopicInput) (*sns.DeleteTopicOutput, error) {
	f.log.add("DeleteTopic:%s", awssdk.StringValue(in.TopicArn))
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &sns.DeleteTopicOutput{}, nil
}

func (f *fakeSNS) ListTopicsPages(in *sns.ListTopicsInput, fn func(*sns.ListTopicsOutput, bool) bool) error {
	out := &sns.ListTopicsOutput{}
	for _, arn := range f.topics {
		out.Topics = append(out.Topics, &sns.Topic{TopicArn: awssdk.String(arn)})
	}
	fn(out, true)
	return nil
}

type fakeIAM struct {
	iamiface.IAMAPI
	log *callLog

	roleErr          error
	roleARN          string
	attachedPolicies []*iam.AttachedPolicy
	inlinePolicies   []string
}

func (f *fakeIAM) GetRole(in *iam.GetRoleInput) (*iam.GetRoleOutput, error) {
	f.log.add("GetRole:%s", awssdk.StringValue(in.RoleName))
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	arn := f.roleARN
	if arn == "" {
		arn = "arn:aws:iam::123456789012:role/" + awssdk.StringValue(in.RoleName)
	}
	return &iam.GetRoleOutput{Role: &iam.Role{Arn: awssdk.String(arn)}}, nil
}

func (f *fakeIAM) ListAttachedRolePolicies(in *iam.ListAttachedRolePoliciesInput) (*iam.ListAttachedRolePoliciesOutput, error) {
	return &iam.ListAttachedRolePoliciesOutput{AttachedPolicies: f.attachedPolicies}, nil
}

func (f *fakeIAM) DetachRolePolicy(in *iam.DetachRolePolicyInput) (*iam.DetachRolePolicyOutput, error) {
	f.log.add("DetachRolePolicy:%s", awssdk.StringValue(in.PolicyArn))
	return &iam.DetachRolePolicyOutput{}, nil
}

func (f *fakeIAM) ListRolePolicies(in *iam.ListRolePoliciesInput) (*iam.ListRolePoliciesOutput, error) {
	out := &iam.ListRolePoliciesOutput{}
	for _, name := range f.inlinePolicies {
		out.PolicyNames = append(out.PolicyNames, awssdk.String(name))
	}
	return out, nil
}

func (f *fakeIAM) DeleteRolePolicy(in *iam.DeleteRolePolicyInput) (*iam.DeleteRolePolicyOutput, error) {
	f.log.add("DeleteRolePolicy:%s", awssdk.StringValue(in.PolicyName))
	return &iam.DeleteRolePolicyOutput{}, nil
}

type fakeSTS struct {
	stsiface.STSAPI
	log *callLog
}

func (f *fakeSTS) GetCallerIdentity(in *sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error) {
	f.log.add("GetCallerIdentity")
	return &sts.GetCallerIdentityOutput{Account: awssdk.String("123456789012")}, nil
}

type fakeApiGw struct {
	apigatewayv2iface.ApiGatewayV2API
	log *callLog

	existing []*apigatewayv2.Api
}

func (f *fakeApiGw) GetApis(in *apigatewayv2.GetApisInput) (*apigatewayv2.GetApisOutput, error) {
	f.log.add("GetApis")
	return &apigatewayv2.GetApisOutput{Items: f.existing}, nil
}

func (f *fakeApiGw) CreateApi(in *apigatewayv2.CreateApiInput) (*apigatewayv2.CreateApiOutput, error) {
	f.log.add("CreateApi:%s", awssdk.StringValue(in.Name))
	return &apigatewayv2.CreateApiOutput{
		ApiId:       awssdk.String("api-1"),
		ApiEndpoint: awssdk.String("https://api-1.execute-api.us-east-1.amazonaws.com"),
	}, nil
}

func (f *fakeApiGw) CreateIntegration(in *apigatewayv2.CreateIntegrationInput) (*apigatewayv2.CreateIntegrationOutput, error) {
	f.log.add("CreateIntegration")
	return &apigatewayv2.CreateIntegrationOutput{IntegrationId: awssdk.String("int-1")}, nil
}

func (f *fakeApiGw) CreateRoute(in *apigatewayv2.CreateRouteInput) (*apigatewayv2.CreateRouteOutput, error) {
	f.log.add("CreateRoute:%s", awssdk.StringValue(in.RouteKey))
	return &apigatewayv2.CreateRouteOutput{}, nil
}

func (f *fakeApiGw) CreateStage(in *apigatewayv2.CreateStageInput) (*apigatewayv2.CreateStageOutput, error) {
	f.log.add("CreateStage:%s", awssdk.StringValue(in.StageName))
	return &apigatewayv2.CreateStageOutput{}, nil
}

func (f *fakeApiGw) DeleteApi(in *apigatewayv2.DeleteApiInput) (*apigatewayv2.DeleteApiOutput, error) {
	f.log.add("DeleteApi:%s", awssdk.StringValue(in.ApiId))
	return &apigatewayv2.DeleteApiOutput{}, nil
}

// fakeCloud bundles one fake per service behind a shared call log.
type fakeCloud struct {
	log    *callLog
	s3     *fakeS3
	ddb    *fakeDynamoDB
	lambda *fakeLambda
	sns    *fakeSNS
	iam    *fakeIAM
	sts    *fakeSTS
	apigw  *fakeApiGw
}

func newFakeCloud() *fakeCloud {
	l := &callLog{}
	return &fakeCloud{
		log:    l,
		s3:     &fakeS3{log: l},
		ddb:    &fakeDynamoDB{log: l},
		lambda: &fakeLambda{log: l},
		sns:    &fakeSNS{log: l},
		iam:    &fakeIAM{log: l},
		sts:    &fakeSTS{log: l},
		apigw:  &fakeApiGw{log: l},
	}
}

func (f *fakeCloud) provider() *Provider {
	return &Provider{
		Region:   "us-east-1",
		S3:       f.s3,
		DynamoDB: f.ddb,
		Lambda:   f.lambda,
		SNS:      f.sns,
		IAM:      f.iam,
		STS:      f.sts,
		ApiGw:    f.apigw,
	}
}
