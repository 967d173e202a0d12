package utils

import "testing"

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "gerant", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	userID, role, err := ParseAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
	if role != "gerant" {
		t.Errorf("role = %q, want gerant", role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "utilisateur", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, _, err := ParseAccessToken("another-secret", tok.Token); err == nil {
		t.Error("expected verification failure with the wrong secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 1, "utilisateur", -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, _, err := ParseAccessToken(testSecret, tok.Token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestParseAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, _, err := ParseAccessToken(testSecret, raw); err == nil {
			t.Errorf("ParseAccessToken(%q): expected error", raw)
		}
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	tok, err := NewResetToken(testSecret, 7, 30)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	userID, err := ParseResetToken(testSecret, tok)
	if err != nil {
		t.Fatalf("ParseResetToken: %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}
}

func TestResetTokenRejectsAccessToken(t *testing.T) {
	// An access token has no purpose claim, so it must not open the
	// password reset endpoint.
	tok, err := NewAccessToken(testSecret, 7, "utilisateur", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseResetToken(testSecret, tok.Token); err == nil {
		t.Error("expected access token to be rejected as reset token")
	}
}

func TestAccessTokenRejectsResetToken(t *testing.T) {
	tok, err := NewResetToken(testSecret, 7, 30)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	// A reset token parses as a structurally valid JWT; the handler
	// relies on the role claim being absent for it.
	if _, role, err := ParseAccessToken(testSecret, tok); err == nil && role != "" {
		t.Errorf("reset token yielded role %q", role)
	}
}

func TestRefreshTokenUniqueness(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Error("two refresh tokens are identical")
	}
	if len(a.Raw) != 96 {
		t.Errorf("raw token length = %d, want 96 hex chars", len(a.Raw))
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	h1 := HashRefreshRaw("some-raw-token")
	h2 := HashRefreshRaw("some-raw-token")
	if h1 != h2 {
		t.Error("hash is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
	if h1 == HashRefreshRaw("another-raw-token") {
		t.Error("distinct tokens hash identically")
	}
}
