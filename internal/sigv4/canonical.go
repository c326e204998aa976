package sigv4

import "strings"

type canonicalRequest struct {
	method               Method
	canonicalURI         string
	canonicalQueryString string
	host                 string
	amzDate              string
	sessionToken         string
	payloadHash          string
}

// build assembles the seven newline-joined canonical request fields. The
// canonical headers block carries its own trailing newline, so an empty line
// separates it from the signed-header list.
func (cr *canonicalRequest) build() string {
	var b strings.Builder

	b.WriteString(string(cr.method))
	b.WriteString("\n")

	b.WriteString(cr.canonicalURI)
	b.WriteString("\n")

	b.WriteString(cr.canonicalQueryString)
	b.WriteString("\n")

	b.WriteString(cr.buildCanonicalHeaders())
	b.WriteString("\n")

	b.WriteString(signedHeaders)
	b.WriteString("\n")

	b.WriteString(cr.payloadHash)

	return b.String()
}

// Header names lower-cased and in ascending code-point order, each line
// terminated by a single newline. The set is fixed and matches signedHeaders.
func (cr *canonicalRequest) buildCanonicalHeaders() string {
	var b strings.Builder

	b.WriteString("host:")
	b.WriteString(cr.host)
	b.WriteString("\n")

	b.WriteString("x-amz-date:")
	b.WriteString(cr.amzDate)
	b.WriteString("\n")

	b.WriteString("x-amz-security-token:")
	b.WriteString(cr.sessionToken)
	b.WriteString("\n")

	return b.String()
}

// buildPayloadHash hashes the request body as opaque bytes. A nil body is
// hashed as an empty byte sequence, never skipped.
func buildPayloadHash(body []byte) string {
	if body == nil {
		return emptyPayloadHash
	}

	return sha256Hex(body)
}
