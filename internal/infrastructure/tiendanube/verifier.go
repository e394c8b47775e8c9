package tiendanube

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// WebhookVerifier checks Tiendanube webhook signatures (HMAC-SHA256 over
// the raw body, base64 encoded, delivered in the x-linkedstore-hmac-sha256
// header).
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier for the given client secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify returns nil when the signature matches the payload.
func (v *WebhookVerifier) Verify(payload []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("webhook signature mismatch")
	}
	return nil
}
