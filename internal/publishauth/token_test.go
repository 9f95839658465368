package publishauth

import (
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "mf2i18n-test",
		JWTExpiration:  time.Hour,
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}
}

func TestGenerateAndValidateRoundTrips(t *testing.T) {
	m := NewTokenManager(testConfig())

	token, expiry, err := m.Generate("key-1", "project-salt", []string{string(ScopePublishManifest)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if expiry.Before(time.Now()) {
		t.Fatal("expiry should be in the future")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.KeyID != "key-1" || claims.ProjectSalt != "project-salt" {
		t.Errorf("claims = %+v, want key-1/project-salt", claims)
	}
	if !claims.HasScope(ScopePublishManifest) {
		t.Error("expected ScopePublishManifest")
	}
	if claims.HasScope(ScopePublishPack) {
		t.Error("did not expect ScopePublishPack")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := NewTokenManager(testConfig())
	token, _, err := m.Generate("key-1", "salt", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	other := NewTokenManager(&Config{JWTSecret: "other-secret", JWTIssuer: "mf2i18n-test", JWTExpiration: time.Hour})
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestRequireScopeRejectsMissingScope(t *testing.T) {
	m := NewTokenManager(testConfig())
	token, _, err := m.Generate("key-1", "salt", []string{string(ScopePublishManifest)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := m.RequireScope(token, ScopePublishPack); err != ErrMissingScope {
		t.Errorf("err = %v, want ErrMissingScope", err)
	}
	if _, err := m.RequireScope(token, ScopePublishManifest); err != nil {
		t.Errorf("RequireScope: %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager(&Config{JWTSecret: "test-secret", JWTIssuer: "mf2i18n-test", JWTExpiration: -time.Minute})
	token, _, err := m.Generate("key-1", "salt", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := m.Validate(token); err == nil {
		t.Fatal("expected validation to reject an expired token")
	}
}
