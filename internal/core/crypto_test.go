// ShopifyQ | 2026
// crypto_test.go

package core

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestSealerRoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey(t))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	plaintext := "shpat_sensitive_admin_token"
	sealed, err := sealer.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if strings.Contains(sealed, plaintext) {
		t.Error("sealed value contains plaintext")
	}

	opened, err := sealer.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != plaintext {
		t.Errorf("opened = %q, want %q", opened, plaintext)
	}
}

func TestSealerNonceVaries(t *testing.T) {
	sealer, err := NewSealer(testKey(t))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	first, err := sealer.Seal("same input")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	second, err := sealer.Seal("same input")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if first == second {
		t.Error("two seals of the same input produced identical ciphertexts")
	}
}

func TestSealerRejectsTamperedCiphertext(t *testing.T) {
	sealer, err := NewSealer(testKey(t))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, err := sealer.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("decode sealed: %v", err)
	}
	raw[len(raw)-1] ^= 0x01
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if _, err := sealer.Open(tampered); err == nil {
		t.Error("expected tampered ciphertext to be rejected")
	}
}

func TestSealerRejectsWrongKey(t *testing.T) {
	first, err := NewSealer(testKey(t))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	second, err := NewSealer(testKey(t))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, err := first.Seal("secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := second.Open(sealed); err == nil {
		t.Error("expected open with a different key to fail")
	}
}

func TestNewSealerRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"too long", base64.StdEncoding.EncodeToString(make([]byte, 48))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSealer(tt.key); err == nil {
				t.Errorf("NewSealer(%q) succeeded, want error", tt.key)
			}
		})
	}
}
