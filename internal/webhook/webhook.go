// Package webhook authenticates requests from the identity provider.
// The provider signs the raw request body with a shared secret; an inbound
// request whose signature does not match is rejected before any parsing.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidSignature is returned when the signature does not match the body.
var ErrInvalidSignature = errors.New("webhook signature mismatch")

// Sign returns the hex encoded HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature presented with a request body.
func Verify(secret, body []byte, signature string) error {
	presented, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	if !hmac.Equal(presented, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}
