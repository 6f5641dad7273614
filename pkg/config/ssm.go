package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/joopert/translate-app/pkg/logx"
)

// ssmClient is the subset of the SSM API the overlay needs.
type ssmClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadWithSSM loads configuration from the environment, first overlaying it
// with values from an AWS SSM Parameter Store parameter when SSM_PARAMETER_NAME
// is set. The parameter holds a JSON object of env-style key/value pairs.
// Explicit environment variables always win over Parameter Store values.
func LoadWithSSM(ctx context.Context) (*Config, error) {
	paramName := os.Getenv("SSM_PARAMETER_NAME")
	if paramName == "" {
		return Load(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if err := applySSMOverlay(ctx, ssm.NewFromConfig(awsCfg), paramName); err != nil {
		return nil, err
	}
	return Load(), nil
}

func applySSMOverlay(ctx context.Context, client ssmClient, paramName string) error {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get ssm parameter %q: %w", paramName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return fmt.Errorf("ssm parameter %q has no value", paramName)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*out.Parameter.Value), &values); err != nil {
		return fmt.Errorf("parse ssm parameter %q: %w", paramName, err)
	}

	applied := 0
	for key, value := range values {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s from ssm: %w", key, err)
		}
		applied++
	}

	logx.WithField("parameter", paramName).
		WithField("applied", applied).
		Info("Configuration overlaid from SSM Parameter Store")
	return nil
}
