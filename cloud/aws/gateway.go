package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/sts"
	log "github.com/sirupsen/logrus"
)

// ApiName is the fixed name of the HTTP API fronting the query function.
const ApiName = "inventory-api"

type HttpApi struct {
	ID       string
	Endpoint string
}

// EnsureHttpApi creates the HTTP API, one proxy integration to the query
// function, the two routes, an auto-deployed stage, and grants the gateway
// permission to invoke the function.
//
// Creation is unconditional: re-running provisioning creates another API with
// the same name. Existing APIs with this name are reported so the duplication
// is at least visible.
func (p *Provider) EnsureHttpApi(functionName, functionARN string) (*HttpApi, error) {
	if out, err := p.ApiGw.GetApis(&apigatewayv2.GetApisInput{}); err == nil {
		for _, a := range out.Items {
			if aws.StringValue(a.Name) == ApiName {
				log.Warnf("[APIGW] an API named %s already exists (id=%s); creating another", ApiName, aws.StringValue(a.ApiId))
			}
		}
	}

	api, err := p.ApiGw.CreateApi(&apigatewayv2.CreateApiInput{
		Name:         aws.String(ApiName),
		ProtocolType: aws.String("HTTP"),
		CorsConfiguration: &apigatewayv2.Cors{
			AllowOrigins: []*string{aws.String("*")},
			AllowMethods: []*string{aws.String("GET")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP API: %v", err)
	}

	apiID := aws.StringValue(api.ApiId)
	log.Infof("[APIGW] HTTP API created: %s", apiID)

	integration, err := p.ApiGw.CreateIntegration(&apigatewayv2.CreateIntegrationInput{
		ApiId:                aws.String(apiID),
		IntegrationType:      aws.String("AWS_PROXY"),
		IntegrationUri:       aws.String(functionARN),
		PayloadFormatVersion: aws.String("2.0"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating integration: %v", err)
	}

	target := "integrations/" + aws.StringValue(integration.IntegrationId)

	for _, routeKey := range []string{"GET /items", "GET /items/{store}"} {
		if _, err := p.ApiGw.CreateRoute(&apigatewayv2.CreateRouteInput{
			ApiId:    aws.String(apiID),
			RouteKey: aws.String(routeKey),
			Target:   aws.String(target),
		}); err != nil {
			return nil, fmt.Errorf("creating route %q: %v", routeKey, err)
		}
		log.Infof("[APIGW] route created: %s", routeKey)
	}

	if _, err := p.ApiGw.CreateStage(&apigatewayv2.CreateStageInput{
		ApiId:      aws.String(apiID),
		StageName:  aws.String("$default"),
		AutoDeploy: aws.Bool(true),
	}); err != nil {
		return nil, fmt.Errorf("creating stage: %v", err)
	}

	identity, err := p.STS.GetCallerIdentity(&sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, err
	}

	// wildcard over every stage and route of this one API
	sourceARN := fmt.Sprintf("arn:aws:execute-api:%s:%s:%s/*/*",
		p.Region, aws.StringValue(identity.Account), apiID)

	if _, err := p.Lambda.AddPermission(&lambda.AddPermissionInput{
		FunctionName: aws.String(functionName),
		StatementId:  aws.String("apigw-invoke-permission-" + apiID),
		Action:       aws.String("lambda:InvokeFunction"),
		Principal:    aws.String("apigateway.amazonaws.com"),
		SourceArn:    aws.String(sourceARN),
	}); err != nil && !isAlreadyExists(err) {
		return nil, fmt.Errorf("adding gateway invocation permission: %v", err)
	}

	log.Infof("[APIGW] gateway invocation permission granted to %s", functionName)
	return &HttpApi{ID: apiID, Endpoint: aws.StringValue(api.ApiEndpoint)}, nil
}

func (p *Provider) DeleteApi(id string) error {
	if _, err := p.ApiGw.DeleteApi(&apigatewayv2.DeleteApiInput{ApiId: aws.String(id)}); err != nil {
		if isNotFound(err) {
			log.Infof("[APIGW] API not found (already deleted): %s", id)
			return nil
		}
		return err
	}

	log.Infof("[APIGW] API deleted: %s", id)
	return nil
}
