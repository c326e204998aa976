package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	requestSuffix    = "aws4_request"

	// The fixed signed-header set, semicolon-delimited in ASCII order.
	signedHeaders = "host;x-amz-date;x-amz-security-token"

	// SHA-256 of zero bytes, used as the payload hash of bodyless requests.
	emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	amzDateFormat   = "20060102T150405Z"
	dateStampFormat = "20060102"
)

// DefaultService is the API Gateway signing service name.
const DefaultService = "execute-api"

// Method is the closed set of HTTP verbs the signer supports.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
)

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodDelete:
		return true
	}

	return false
}

func hmacSHA256(key, value []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(value)
	return mac.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
