package webhook

import (
	"crypto/subtle"
	"strings"
)

// HeaderToken carries the shared secret configured in the Priority business rule.
const HeaderToken = "X-Webhook-Token"

// Verifier checks the shared token sent with inbound roster webhooks
type Verifier struct {
	token string
}

func NewVerifier(token string) *Verifier {
	return &Verifier{token: strings.TrimSpace(token)}
}

// Enabled reports whether a token is configured. Without one every request
// is accepted, matching deployments that rely on network isolation.
func (v *Verifier) Enabled() bool {
	return v.token != ""
}

// Verify compares the received token in constant time.
func (v *Verifier) Verify(received string) bool {
	if !v.Enabled() {
		return true
	}
	received = strings.TrimSpace(received)
	return subtle.ConstantTimeCompare([]byte(received), []byte(v.token)) == 1
}
