package utils

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yardpoint/pipeyardgo/internal/config"
	"github.com/yardpoint/pipeyardgo/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	// Test Hashing
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	// Test Comparison (Success)
	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	// Test Comparison (Failure)
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	// Setup Mock Config
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}

	companyID := uuid.New()
	user := &models.UserAuth{
		ID:        uuid.New(),
		Email:     "test@example.com",
		Role:      "admin",
		CompanyID: &companyID,
	}

	// Test Generation
	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Error("Tokens should not be empty")
	}

	// Test Validation (Success)
	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims["id"] != user.ID.String() {
		t.Errorf("Expected id %s, got %v", user.ID, claims["id"])
	}
	if claims["email"] != user.Email {
		t.Errorf("Expected email %s, got %v", user.Email, claims["email"])
	}
	if claims["company_id"] != companyID.String() {
		t.Errorf("Expected company_id %s, got %v", companyID, claims["company_id"])
	}

	// Test Validation (Wrong Secret)
	if _, err := ValidateToken(accessToken, "wrong-secret"); err == nil {
		t.Error("Token should not validate with wrong secret")
	}

	// Test Validation (Garbage)
	if _, err := ValidateToken("not-a-token", cfg.JWTSecret); err == nil {
		t.Error("Garbage token should not validate")
	}
}
