package sigv4

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/IllumiKnowLabs/execgate/internal/credentials"
	"github.com/IllumiKnowLabs/execgate/internal/security"
)

// Config carries everything the signer needs beyond the per-request inputs.
// It is passed in explicitly; the signer reads no environment state.
type Config struct {
	Region          string
	Service         string
	SolutionName    string
	SolutionVersion string
}

// Signer produces SigV4-signed requests for a single region and service.
// All per-call state is local, so a Signer is safe for concurrent use.
type Signer struct {
	cfg Config
	now func() time.Time
}

func NewSigner(cfg Config) *Signer {
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}

	return &Signer{
		cfg: cfg,
		now: time.Now,
	}
}

// SignedRequest is the wire artifact handed to the dispatcher: the final URL,
// the complete header set and the body to send as-is.
type SignedRequest struct {
	Method  Method
	URL     string
	Headers map[string]string
	Body    []byte
}

// Sign builds the canonical request, derives the scoped signing key and
// assembles the Authorization header. The query must be pre-encoded and in
// canonical order; it is only honored for GET, where parameters travel in the
// URL. Any failure aborts the request before network I/O.
func (s *Signer) Sign(creds *credentials.Credentials, method Method, endpoint, query string, body []byte) (*SignedRequest, error) {
	if creds == nil || creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, ErrorNoAccessKey()
	}

	if !method.valid() {
		return nil, ErrorUnsupportedMethod(method)
	}

	// amzDate and dateStamp must come from the same instant, or the
	// credential scope would not match the signed timestamp.
	t := s.now().UTC()
	amzDate := t.Format(amzDateFormat)
	dateStamp := t.Format(dateStampFormat)

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, &EncodingError{Endpoint: endpoint, Reason: err.Error()}
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, &EncodingError{Endpoint: endpoint, Reason: "missing scheme or host"}
	}

	canonicalURI := u.EscapedPath()
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	// Parameters ride in the query string for GET only; POST carries them
	// in the body, which is hashed instead.
	canonicalQueryString := ""
	if method == MethodGet {
		canonicalQueryString = query
	}

	// GET is strictly bodyless; only POST hashes and carries a payload.
	if method == MethodGet {
		body = nil
	}

	payloadHash := emptyPayloadHash
	if method == MethodPost {
		payloadHash = buildPayloadHash(body)
	}

	cr := &canonicalRequest{
		method:               method,
		canonicalURI:         canonicalURI,
		canonicalQueryString: canonicalQueryString,
		host:                 u.Host,
		amzDate:              amzDate,
		sessionToken:         creds.SessionToken,
		payloadHash:          payloadHash,
	}

	slog.Debug(
		"canonical request built",
		"method", method,
		"uri", canonicalURI,
		"query_string", canonicalQueryString,
		"payload_hash", payloadHash,
	)

	credentialScope := strings.Join(
		[]string{dateStamp, s.cfg.Region, s.cfg.Service, requestSuffix}, "/",
	)

	stringToSign := buildStringToSign(amzDate, credentialScope, cr.build())
	slog.Debug("string to sign built", "string_to_sign", security.TruncLastLine(stringToSign))

	signingKey := deriveSigningKey(creds.SecretAccessKey, dateStamp, s.cfg.Region, s.cfg.Service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	authorization := fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signingAlgorithm, creds.AccessKeyID, credentialScope, signedHeaders, signature,
	)

	slog.Debug("authorization header built", "authorization", security.TruncParamHeader(authorization, "Signature"))

	headers := map[string]string{
		"Authorization":          authorization,
		"x-amz-date":             amzDate,
		"x-amz-security-token":   creds.SessionToken,
		"x-amzn-service-name":    s.cfg.SolutionName,
		"x-amzn-service-version": s.cfg.SolutionVersion,
	}

	requestURL := endpoint
	if method == MethodGet {
		requestURL = endpoint + "?" + canonicalQueryString
	}

	res := &SignedRequest{
		Method:  method,
		URL:     requestURL,
		Headers: headers,
		Body:    body,
	}

	return res, nil
}

func buildStringToSign(amzDate, credentialScope, canonicalRequest string) string {
	var b strings.Builder

	b.WriteString(signingAlgorithm)
	b.WriteString("\n")

	b.WriteString(amzDate)
	b.WriteString("\n")

	b.WriteString(credentialScope)
	b.WriteString("\n")

	b.WriteString(sha256Hex([]byte(canonicalRequest)))

	return b.String()
}
