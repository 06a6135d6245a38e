// Package webhook verifies inbound Oura webhook traffic: the GET
// challenge/response handshake used for endpoint registration and the
// HMAC-SHA256 signature on POSTed event notifications. Both transitions are
// stateless; nothing is persisted and no replay protection is attempted.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Verifier holds the shared secrets configured for the webhook endpoint.
type Verifier struct {
	verificationToken string
	clientSecret      string
}

func NewVerifier(verificationToken, clientSecret string) *Verifier {
	return &Verifier{
		verificationToken: verificationToken,
		clientSecret:      clientSecret,
	}
}

// VerifyToken compares a handshake token against the configured one in
// constant time.
func (v *Verifier) VerifyToken(token string) bool {
	return hmac.Equal([]byte(token), []byte(v.verificationToken))
}

// Signature computes the uppercase hex HMAC-SHA256 of timestamp+body under
// the shared client secret, the scheme Oura signs notifications with.
func (v *Verifier) Signature(timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(v.clientSecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature recomputes the expected signature and compares it in
// constant time against the header value.
func (v *Verifier) VerifySignature(timestamp string, body []byte, signature string) bool {
	expected := v.Signature(timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
