package webhook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	secret := []byte("s3cret")
	body := []byte(`{"id":"1","email":"alice@example.com"}`)

	t.Run("valid signature", func(t *testing.T) {
		require.NoError(t, Verify(secret, body, Sign(secret, body)))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := Sign(secret, body)
		require.ErrorIs(t, Verify(secret, []byte(`{"id":"2"}`), sig), ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		sig := Sign([]byte("other"), body)
		require.ErrorIs(t, Verify(secret, body, sig), ErrInvalidSignature)
	})

	t.Run("not hex", func(t *testing.T) {
		require.ErrorIs(t, Verify(secret, body, "zz"), ErrInvalidSignature)
	})
}
