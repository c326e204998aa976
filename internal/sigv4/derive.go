package sigv4

// deriveSigningKey runs the fixed four-step HMAC chain that scopes the secret
// key to a date, region and service. Returns the raw 32-byte signing key.
// Nothing is cached: key material lives only for the duration of one call.
func deriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	dateKey := hmacSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	dateRegionKey := hmacSHA256(dateKey, []byte(region))
	dateRegionServiceKey := hmacSHA256(dateRegionKey, []byte(service))
	signingKey := hmacSHA256(dateRegionServiceKey, []byte(requestSuffix))

	return signingKey
}
