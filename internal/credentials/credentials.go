package credentials

import (
	"context"
	"fmt"
	"time"
)

// Credentials are the short-lived keys returned by a role assumption. They
// are requested fresh per signed request and discarded afterwards; nothing
// in this module caches them.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// Provider supplies temporary credentials for signing.
type Provider interface {
	AssumeRole(ctx context.Context) (*Credentials, error)
}

// AuthenticationError reports a failed role assumption. The request it was
// meant to sign is never sent.
type AuthenticationError struct {
	RoleARN string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("could not assume role %s: %v", e.RoleARN, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
