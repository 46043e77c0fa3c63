package polly

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Signer produces AWS Signature Version 4 headers for Polly requests.
// The clock is injectable so signatures are reproducible in tests.
type Signer struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string

	now func() time.Time
}

const signingService = "polly"

func NewSigner(accessKeyID, secretAccessKey, sessionToken, region string) *Signer {
	return &Signer{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    sessionToken,
		Region:          region,
		now:             time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Sign returns the headers to attach to the request: Authorization,
// X-Amz-Date and, for temporary credentials, X-Amz-Security-Token.
// headers must contain every header included in the signature (at least
// host and content-type for POST bodies), with lowercase keys.
func (s *Signer) Sign(method, uri, query string, headers map[string]string, payload []byte) map[string]string {
	t := s.now().UTC()
	amzDate := t.Format("20060102T150405Z")
	dateStamp := t.Format("20060102")

	canonical := map[string]string{"x-amz-date": amzDate}
	for k, v := range headers {
		canonical[strings.ToLower(k)] = v
	}

	names := make([]string, 0, len(canonical))
	for k := range canonical {
		names = append(names, k)
	}
	sort.Strings(names)

	var canonicalHeaders strings.Builder
	for _, name := range names {
		canonicalHeaders.WriteString(name)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(strings.TrimSpace(canonical[name]))
		canonicalHeaders.WriteByte('\n')
	}
	signedHeaders := strings.Join(names, ";")

	payloadHash := hexSha256(payload)
	canonicalRequest := strings.Join([]string{
		method, uri, query, canonicalHeaders.String(), signedHeaders, payloadHash,
	}, "\n")

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.Region, signingService)
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		hexSha256([]byte(canonicalRequest)),
	}, "\n")

	dateKey := hmacSha256([]byte("AWS4"+s.SecretAccessKey), dateStamp)
	regionKey := hmacSha256(dateKey, s.Region)
	serviceKey := hmacSha256(regionKey, signingService)
	signingKey := hmacSha256(serviceKey, "aws4_request")
	signature := hex.EncodeToString(hmacSha256(signingKey, stringToSign))

	result := map[string]string{
		"Authorization": fmt.Sprintf(
			"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
			s.AccessKeyID, credentialScope, signedHeaders, signature),
		"X-Amz-Date": amzDate,
	}
	if s.SessionToken != "" {
		result["X-Amz-Security-Token"] = s.SessionToken
	}
	return result
}

func hexSha256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSha256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
