package auth

import (
	"strings"
	"testing"
)

func testSecret() string {
	return strings.Repeat("ab12", 16) // 64 chars, like the generated hex secret
}

func TestGenerateAndValidateToken(t *testing.T) {
	InitializeJWT(testSecret())

	token, err := GenerateToken("01J5TESTUSER", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "01J5TESTUSER" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitializeJWT(testSecret())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ValidateToken(token); err == nil {
			t.Errorf("ValidateToken(%q) accepted invalid token", token)
		}
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	InitializeJWT(testSecret())
	token, err := GenerateToken("01J5TESTUSER", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	InitializeJWT(strings.Repeat("cd34", 16))
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with the old secret still validates")
	}
}
