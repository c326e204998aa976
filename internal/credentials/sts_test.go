package credentials

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/IllumiKnowLabs/execgate/internal/security"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSTS struct {
	stsiface.STSAPI

	input *sts.AssumeRoleInput
	out   *sts.AssumeRoleOutput
	err   error
}

func (s *stubSTS) AssumeRoleWithContext(ctx aws.Context, input *sts.AssumeRoleInput, opts ...request.Option) (*sts.AssumeRoleOutput, error) {
	s.input = input

	if s.err != nil {
		return nil, s.err
	}

	return s.out, nil
}

const testRoleARN = "arn:aws:iam::123456789012:role/execgate-api"

func TestAssumeRole(t *testing.T) {
	expiration := time.Now().Add(time.Hour).Truncate(time.Second)

	stub := &stubSTS{
		out: &sts.AssumeRoleOutput{
			Credentials: &sts.Credentials{
				AccessKeyId:     aws.String("AKIDEXAMPLE"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
				Expiration:      aws.Time(expiration),
			},
		},
	}

	provider := NewSTSProvider(stub, testRoleARN)

	creds, err := provider.AssumeRole(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "token", creds.SessionToken)
	assert.Equal(t, expiration, creds.Expiration)

	require.NotNil(t, stub.input)
	assert.Equal(t, testRoleARN, aws.StringValue(stub.input.RoleArn))
	assert.True(t, strings.HasPrefix(aws.StringValue(stub.input.RoleSessionName), sessionNamePrefix))
}

func TestAssumeRoleUniqueSessionNames(t *testing.T) {
	stub := &stubSTS{
		out: &sts.AssumeRoleOutput{
			Credentials: &sts.Credentials{
				AccessKeyId:     aws.String("AKIDEXAMPLE"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
				Expiration:      aws.Time(time.Now()),
			},
		},
	}

	provider := NewSTSProvider(stub, testRoleARN)

	_, err := provider.AssumeRole(context.Background())
	require.NoError(t, err)
	first := aws.StringValue(stub.input.RoleSessionName)

	_, err = provider.AssumeRole(context.Background())
	require.NoError(t, err)
	second := aws.StringValue(stub.input.RoleSessionName)

	assert.NotEqual(t, first, second)
}

func TestAssumeRoleDebugLoggingRedactsToken(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	defer slog.SetDefault(prev)

	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	token := "IQoJb3JpZ2luX2VjEXAMPLETOKEN"

	stub := &stubSTS{
		out: &sts.AssumeRoleOutput{
			Credentials: &sts.Credentials{
				AccessKeyId:     aws.String("AKIDEXAMPLE"),
				SecretAccessKey: aws.String("secret-key-value"),
				SessionToken:    aws.String(token),
				Expiration:      aws.Time(time.Now()),
			},
		},
	}

	provider := NewSTSProvider(stub, testRoleARN)

	_, err := provider.AssumeRole(context.Background())
	require.NoError(t, err)

	logged := buf.String()

	assert.Contains(t, logged, security.Redacted)
	assert.NotContains(t, logged, token)
	assert.NotContains(t, logged, "secret-key-value")
}

func TestAssumeRoleFailure(t *testing.T) {
	stub := &stubSTS{err: errors.New("access denied")}
	provider := NewSTSProvider(stub, testRoleARN)

	_, err := provider.AssumeRole(context.Background())

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, testRoleARN, authErr.RoleARN)
	assert.ErrorContains(t, err, "access denied")
}
