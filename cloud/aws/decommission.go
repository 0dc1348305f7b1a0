package aws

import (
	log "github.com/sirupsen/logrus"

	"github.com/stockpile-io/stockpile/common"
	"github.com/stockpile-io/stockpile/registry"
)

type DecommissionOptions struct {
	RoleName string

	// Registry is the record of the run being torn down, when a local record
	// exists. With a registry, only recorded resources are deleted and other
	// prefix matches are reported as orphans. Without one, every prefix match
	// is deleted.
	Registry *registry.Record
}

// Decommission deletes pipeline resources in reverse dependency order. Every
// step is best-effort: failures other than "already absent" are logged and
// the remaining steps still run.
func (p *Provider) Decommission(opts DecommissionOptions) {
	rec := opts.Registry

	log.Info("--- deleting S3 buckets ---")
	for _, prefix := range []string{common.IngestBucketBase + "-", common.WebBucketBase + "-"} {
		names, err := p.listBucketsWithPrefix(prefix)
		if err != nil {
			log.Warnf("[S3] could not list buckets with prefix %s: %v", prefix, err)
			continue
		}
		for _, name := range names {
			if !owned(rec, name, recordedBuckets(rec)...) {
				log.Warnf("[S3] orphan: bucket %s matches prefix %s but is not in the registry; leaving it for review", name, prefix)
				continue
			}
			if err := p.DeleteBucket(name); err != nil {
				log.Warnf("[S3] could not delete bucket %s: %v", name, err)
			}
		}
	}

	log.Info("--- deleting Lambda functions ---")
	functionPrefixes := []string{
		common.LoaderFunctionBase + "-",
		common.QueryFunctionBase + "-",
		common.NotifierFunctionBase + "-",
	}
	for _, prefix := range functionPrefixes {
		names, err := p.listFunctionsWithPrefix(prefix)
		if err != nil {
			log.Warnf("[Lambda] could not list functions with prefix %s: %v", prefix, err)
			continue
		}
		for _, name := range names {
			if !owned(rec, name, recordedFunctions(rec)...) {
				log.Warnf("[Lambda] orphan: function %s matches prefix %s but is not in the registry; leaving it for review", name, prefix)
				continue
			}
			if err := p.DeleteFunction(name); err != nil {
				log.Warnf("[Lambda] could not delete function %s: %v", name, err)
			}
		}
	}

	log.Info("--- deleting DynamoDB table ---")
	if err := p.DeleteTable(common.TableName); err != nil {
		log.Warnf("[DDB] could not delete table %s: %v", common.TableName, err)
	}

	log.Info("--- deleting SNS topics ---")
	arns, err := p.listTopicsWithPrefix(common.TopicBase + "-")
	if err != nil {
		log.Warnf("[SNS] could not list topics: %v", err)
	}
	for _, arn := range arns {
		if rec != nil && arn != rec.TopicARN {
			log.Warnf("[SNS] orphan: topic %s is not in the registry; leaving it for review", arn)
			continue
		}
		if err := p.DeleteTopic(arn); err != nil {
			log.Warnf("[SNS] could not delete topic %s: %v", arn, err)
		}
	}

	log.Info("--- deleting HTTP APIs ---")
	ids, err := p.listApisNamed(ApiName)
	if err != nil {
		log.Warnf("[APIGW] could not list APIs: %v", err)
	}
	for _, id := range ids {
		if rec != nil && rec.ApiID != "" && id != rec.ApiID {
			log.Warnf("[APIGW] orphan: API %s is not in the registry; leaving it for review", id)
			continue
		}
		if err := p.DeleteApi(id); err != nil {
			log.Warnf("[APIGW] could not delete API %s: %v", id, err)
		}
	}

	log.Info("--- cleaning IAM role policies ---")
	if err := p.CleanupRolePolicies(opts.RoleName); err != nil {
		log.Warnf("[IAM] could not clean policies on role %s: %v", opts.RoleName, err)
	}
}

// owned reports whether a discovered resource may be deleted: with no
// registry every prefix match is fair game, with one only recorded names are.
func owned(rec *registry.Record, name string, recorded ...string) bool {
	if rec == nil {
		return true
	}
	for _, r := range recorded {
		if name == r {
			return true
		}
	}
	return false
}

func recordedBuckets(rec *registry.Record) []string {
	if rec == nil {
		return nil
	}
	return []string{rec.IngestBucket, rec.WebBucket}
}

func recordedFunctions(rec *registry.Record) []string {
	if rec == nil {
		return nil
	}
	return []string{rec.LoaderFunction, rec.QueryFunction, rec.NotifierFunction}
}
