package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IllumiKnowLabs/execgate/internal/security"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
	"github.com/google/uuid"
)

const sessionNamePrefix = "execgate-api-handler"

// STSProvider assumes a role through STS on every call. A fresh, uniquely
// named session is requested each time instead of tracking expiry.
type STSProvider struct {
	api     stsiface.STSAPI
	roleARN string
}

func NewSTSProvider(api stsiface.STSAPI, roleARN string) *STSProvider {
	return &STSProvider{
		api:     api,
		roleARN: roleARN,
	}
}

func (p *STSProvider) AssumeRole(ctx context.Context) (*Credentials, error) {
	sessionName := fmt.Sprintf("%s-%s", sessionNamePrefix, uuid.NewString())

	slog.Info("assuming role", "role_arn", p.roleARN, "session_name", sessionName)

	out, err := p.api.AssumeRoleWithContext(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(p.roleARN),
		RoleSessionName: aws.String(sessionName),
	})
	if err != nil {
		return nil, &AuthenticationError{RoleARN: p.roleARN, Err: err}
	}

	res := &Credentials{
		AccessKeyID:     aws.StringValue(out.Credentials.AccessKeyId),
		SecretAccessKey: aws.StringValue(out.Credentials.SecretAccessKey),
		SessionToken:    aws.StringValue(out.Credentials.SessionToken),
		Expiration:      aws.TimeValue(out.Credentials.Expiration),
	}

	slog.Debug(
		"assumed role",
		"access_key", res.AccessKeyID,
		"session_token", security.Trunc(res.SessionToken),
		"expiration", res.Expiration.Format(time.RFC3339),
	)

	return res, nil
}
