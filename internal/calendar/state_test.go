package calendar

import (
	"testing"
	"time"
)

func TestStateTokenRoundTrip(t *testing.T) {
	token := NewStateToken(7)

	encoded, err := token.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeStateToken(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.UserID != 7 {
		t.Errorf("user id = %d, want 7", decoded.UserID)
	}
	if decoded.Nonce != token.Nonce {
		t.Errorf("nonce = %q, want %q", decoded.Nonce, token.Nonce)
	}

	if err := decoded.Verify(7); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func TestStateTokenWrongUser(t *testing.T) {
	token := NewStateToken(7)

	if err := token.Verify(8); err == nil {
		t.Fatal("expected error for wrong user")
	}
}

func TestStateTokenExpired(t *testing.T) {
	token := StateToken{
		UserID:   7,
		Nonce:    "n",
		IssuedAt: time.Now().Add(-time.Hour),
	}

	if err := token.Verify(7); err == nil {
		t.Fatal("expected error for stale state")
	}
}

func TestDecodeStateTokenGarbage(t *testing.T) {
	for _, bad := range []string{"", "not base64 !!", "bm90IGpzb24="} {
		if _, err := DecodeStateToken(bad); err == nil {
			t.Errorf("DecodeStateToken(%q): expected error", bad)
		}
	}
}
