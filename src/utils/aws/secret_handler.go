package aws_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

func (s *SecretManager) GetSecretValue(ctx context.Context, secretId string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretId),
	}

	result, err := s.svc.GetSecretValueWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretId)
	}
	return *result.SecretString, nil
}

// GetDBPassword reads a database secret. RDS-managed secrets are JSON documents
// with a "password" field; anything else is taken as the password itself.
func (s *SecretManager) GetDBPassword(ctx context.Context, secretId string) (string, error) {
	value, err := s.GetSecretValue(ctx, secretId)
	if err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	var secret struct {
		Password string `json:"password"`
	}
	if err := json.Unmarshal([]byte(trimmed), &secret); err != nil {
		return "", fmt.Errorf("failed to parse secret %s: %w", secretId, err)
	}
	if secret.Password == "" {
		return "", fmt.Errorf("secret %s has no password field", secretId)
	}
	return secret.Password, nil
}
