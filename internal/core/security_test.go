// ShopifyQ | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	const password = "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash %q is not PHC argon2id format", hash)
	}
	if strings.Contains(hash, password) {
		t.Error("hash contains the plaintext password")
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword wrong: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("duplicate")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("duplicate")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Error("same password produced identical hashes")
	}
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	ok, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if ok {
		t.Error("nil hash verified")
	}
}

func TestTokenHashing(t *testing.T) {
	token, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	hash := HashToken(token)
	if hash == token {
		t.Error("token hash equals the token")
	}
	if !CompareTokenHash(token, hash) {
		t.Error("token does not match its own hash")
	}
	if CompareTokenHash("other-token", hash) {
		t.Error("wrong token matched the hash")
	}
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateSecureToken(32)
		if err != nil {
			t.Fatalf("GenerateSecureToken: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token: %q", token)
		}
		seen[token] = true
	}
}
