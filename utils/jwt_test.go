package utils

import (
	"testing"
	"time"

	"github.com/aeroforge/aerobbs/config"
	"github.com/aeroforge/aerobbs/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(42, "alice", models.RoleModerator, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != models.RoleModerator {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Subject != "42" {
		t.Fatalf("subject = %q, want 42", claims.Subject)
	}
}

func TestParseTokenExpired(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(1, "alice", models.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Fatalf("expired token should not parse")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "secret-a"})
	token, err := GenerateToken(1, "alice", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	config.SetForTesting(config.AppConfig{JWTSecret: "secret-b"})
	if _, err := ParseToken(token); err == nil {
		t.Fatalf("token signed with another secret should not parse")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatalf("garbage should not parse")
	}
}
