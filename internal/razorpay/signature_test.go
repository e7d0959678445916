package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSignature(t *testing.T) {
	t.Run("matches a manually computed HMAC", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte("secret"))
		mac.Write([]byte("order_123|pay_456"))
		want := hex.EncodeToString(mac.Sum(nil))

		got := Signature("secret", "order_123", "pay_456")
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("changes with the key", func(t *testing.T) {
		a := Signature("secret-a", "order_123", "pay_456")
		b := Signature("secret-b", "order_123", "pay_456")
		if a == b {
			t.Error("expected different signatures for different secrets")
		}
	})
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("secret", "order_123", "pay_456")

	t.Run("accepts the genuine signature", func(t *testing.T) {
		if !VerifySignature("secret", "order_123", "pay_456", sig) {
			t.Error("expected signature to verify")
		}
	})

	t.Run("rejects a tampered payment id", func(t *testing.T) {
		if VerifySignature("secret", "order_123", "pay_999", sig) {
			t.Error("expected verification to fail")
		}
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		if VerifySignature("secret", "order_123", "pay_456", "") {
			t.Error("expected verification to fail")
		}
	})
}
