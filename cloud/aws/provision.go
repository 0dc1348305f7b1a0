package aws

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/stockpile-io/stockpile/common"
	"github.com/stockpile-io/stockpile/registry"
)

type ProvisionOptions struct {
	RoleName          string
	SubscriptionEmail string

	// DistDir holds the prebuilt handler binaries, one
	// <dist>/<function-base>/bootstrap per function.
	DistDir string

	// IndexDocument is uploaded to the website bucket when non-empty.
	IndexDocument []byte
}

// Provision creates or updates every pipeline resource in dependency order
// and returns the registry record describing the run. Any provider error
// other than "already exists" aborts the run; there is no rollback, a rerun
// picks up where things stand.
func (p *Provider) Provision(opts ProvisionOptions) (*registry.Record, error) {
	suffix := common.GenerateSuffix()

	ingestBucket := common.Suffixed(common.IngestBucketBase, suffix)
	webBucket := common.Suffixed(common.WebBucketBase, suffix)
	topicName := common.Suffixed(common.TopicBase, suffix)
	loaderFunction := common.Suffixed(common.LoaderFunctionBase, suffix)
	queryFunction := common.Suffixed(common.QueryFunctionBase, suffix)
	notifierFunction := common.Suffixed(common.NotifierFunctionBase, suffix)

	log.Infof("starting deployment with suffix %s in region %s", suffix, p.Region)

	roleARN, err := p.ExecutionRoleARN(opts.RoleName)
	if err != nil {
		return nil, err
	}

	_, streamARN, err := p.EnsureTable(common.TableName)
	if err != nil {
		return nil, err
	}

	topicARN, err := p.EnsureTopic(topicName, opts.SubscriptionEmail)
	if err != nil {
		return nil, err
	}

	if err := p.EnsureBucket(ingestBucket, false); err != nil {
		return nil, err
	}
	if err := p.EnsureBucket(webBucket, true); err != nil {
		return nil, err
	}

	if len(opts.IndexDocument) > 0 {
		if err := p.UploadObject(webBucket, "index.html", opts.IndexDocument, "text/html; charset=utf-8"); err != nil {
			return nil, err
		}
		log.Infof("[S3] index.html uploaded to s3://%s", webBucket)
	} else {
		log.Warn("[S3] no index document provided, the website bucket will be empty")
	}

	websiteURL := p.websiteURL(webBucket)
	log.Infof("[S3] website URL: %s", websiteURL)

	loaderARN, err := p.EnsureFunction(FunctionConfig{
		Name:     loaderFunction,
		RoleARN:  roleARN,
		CodePath: filepath.Join(opts.DistDir, common.LoaderFunctionBase, defaultHandlerName),
		Env:      map[string]string{"TABLE_NAME": common.TableName},
	})
	if err != nil {
		return nil, err
	}
	if err := p.WireStorageTrigger(ingestBucket, loaderFunction, loaderARN); err != nil {
		return nil, err
	}

	queryARN, err := p.EnsureFunction(FunctionConfig{
		Name:     queryFunction,
		RoleARN:  roleARN,
		CodePath: filepath.Join(opts.DistDir, common.QueryFunctionBase, defaultHandlerName),
		Env:      map[string]string{"TABLE_NAME": common.TableName},
	})
	if err != nil {
		return nil, err
	}

	if _, err = p.EnsureFunction(FunctionConfig{
		Name:     notifierFunction,
		RoleARN:  roleARN,
		CodePath: filepath.Join(opts.DistDir, common.NotifierFunctionBase, defaultHandlerName),
		Env: map[string]string{
			"TABLE_NAME": common.TableName,
			"TOPIC_ARN":  topicARN,
		},
	}); err != nil {
		return nil, err
	}

	mappingID, err := p.WireStreamTrigger(streamARN, notifierFunction, 10, true)
	if err != nil {
		return nil, err
	}

	api, err := p.EnsureHttpApi(queryFunction, queryARN)
	if err != nil {
		return nil, err
	}

	return &registry.Record{
		Suffix:           suffix,
		IngestBucket:     ingestBucket,
		WebBucket:        webBucket,
		Table:            common.TableName,
		StreamARN:        streamARN,
		LoaderFunction:   loaderFunction,
		QueryFunction:    queryFunction,
		NotifierFunction: notifierFunction,
		RoleName:         opts.RoleName,
		TopicARN:         topicARN,
		MappingID:        mappingID,
		WebsiteURL:       websiteURL,
		ApiID:            api.ID,
		ApiEndpoint:      api.Endpoint,
	}, nil
}
