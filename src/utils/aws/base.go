package aws_handler

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

const defaultRegion = "us-east-1"

// AWSHandler groups the AWS service clients the application talks to.
type AWSHandler struct {
	SecretManager *SecretManager
}

// NewAWSHandler opens a session for region, using the shared credential chain.
func NewAWSHandler(region string) (*AWSHandler, error) {
	if region == "" {
		region = defaultRegion
	}
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &AWSHandler{SecretManager: NewSecretManager(secretsmanager.New(sess))}, nil
}
