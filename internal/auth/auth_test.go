package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func testKeys(t *testing.T) *Keys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return NewKeysFromPrivate(privateKey)
}

func TestTokenRoundTrip(t *testing.T) {
	k := testKeys(t)

	token, err := k.GenerateToken("42", RoleClient)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := k.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}
	if claims.Role != RoleClient {
		t.Errorf("role = %q, want %q", claims.Role, RoleClient)
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := testKeys(t)
	verifier := testKeys(t)

	token, err := issuer.GenerateToken("42", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected validation to fail for a token signed with another key")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	k := testKeys(t)
	if _, err := k.ValidateToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleSeller, RoleClient} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole("SUPERUSER") {
		t.Error("ValidRole accepted an unknown role")
	}
}
