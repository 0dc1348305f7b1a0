package aws

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/iam"
	log "github.com/sirupsen/logrus"
)

// ExecutionRoleARN resolves the pre-existing shared execution role the Lambda
// functions assume. The role is not owned by this tool; a missing role is a
// fatal precondition failure before any resource is touched.
func (p *Provider) ExecutionRoleARN(roleName string) (string, error) {
	resp, err := p.IAM.GetRole(&iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("execution role %q was not found; check its name or set LAMBDA_ROLE_NAME", roleName)
		}
		return "", err
	}

	log.Infof("[IAM] using existing role: %s", roleName)
	return aws.StringValue(resp.Role.Arn), nil
}

// CleanupRolePolicies detaches the basic execution policy and deletes the
// inline policies this workflow's naming convention owns. The role itself is
// shared and never deleted.
func (p *Provider) CleanupRolePolicies(roleName string) error {
	attached, err := p.IAM.ListAttachedRolePolicies(&iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	for _, policy := range attached.AttachedPolicies {
		name := aws.StringValue(policy.PolicyName)
		if !strings.Contains(name, "AWSLambdaBasicExecutionRole") {
			continue
		}

		if _, err := p.IAM.DetachRolePolicy(&iam.DetachRolePolicyInput{
			RoleName:  aws.String(roleName),
			PolicyArn: policy.PolicyArn,
		}); err != nil {
			log.Warnf("[IAM] could not detach policy %s: %v", name, err)
		} else {
			log.Infof("[IAM] managed policy detached: %s", name)
		}
	}

	inline, err := p.IAM.ListRolePolicies(&iam.ListRolePoliciesInput{RoleName: aws.String(roleName)})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	for _, policyName := range inline.PolicyNames {
		name := aws.StringValue(policyName)
		if !ownsInlinePolicy(name) {
			continue
		}

		if _, err := p.IAM.DeleteRolePolicy(&iam.DeleteRolePolicyInput{
			RoleName:   aws.String(roleName),
			PolicyName: aws.String(name),
		}); err != nil {
			log.Warnf("[IAM] could not delete inline policy %s: %v", name, err)
		} else {
			log.Infof("[IAM] inline policy deleted: %s", name)
		}
	}

	return nil
}

func ownsInlinePolicy(name string) bool {
	for _, prefix := range []string{"PolicyA-", "PolicyB-", "PolicyC-"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
