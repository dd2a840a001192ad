package utilities

import (
	"testing"

	"rollcall-backend/internal/model"
)

func testAdmin() *model.Admin {
	return &model.Admin{
		ID:    7,
		Name:  "관리자",
		Email: "admin@rokapass.kr",
		Role:  "super_admin",
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	access, refresh, err := GenerateTokens(testAdmin())
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("unexpected token pair")
	}

	claims, err := ValidateToken(access, false)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AdminID != 7 || claims.Email != "admin@rokapass.kr" || claims.Role != "super_admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// An access token must not pass refresh validation and vice versa.
	if _, err := ValidateToken(access, true); err == nil {
		t.Fatalf("access token accepted as refresh token")
	}
	if _, err := ValidateToken(refresh, false); err == nil {
		t.Fatalf("refresh token accepted as access token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", false); err == nil {
		t.Fatalf("garbage token accepted")
	}
}

func TestRefreshTokens(t *testing.T) {
	_, refresh, err := GenerateTokens(testAdmin())
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	newAccess, newRefresh, err := RefreshTokens(refresh)
	if err != nil {
		t.Fatalf("RefreshTokens: %v", err)
	}

	claims, err := ValidateToken(newAccess, false)
	if err != nil {
		t.Fatalf("ValidateToken on refreshed access token: %v", err)
	}
	if claims.AdminID != 7 {
		t.Fatalf("claims lost through refresh: %+v", claims)
	}
	if _, err := ValidateToken(newRefresh, true); err != nil {
		t.Fatalf("refreshed refresh token invalid: %v", err)
	}
}

func TestRefreshTokensRejectsAccessToken(t *testing.T) {
	access, _, err := GenerateTokens(testAdmin())
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if _, _, err := RefreshTokens(access); err == nil {
		t.Fatalf("access token accepted for refresh")
	}
}
