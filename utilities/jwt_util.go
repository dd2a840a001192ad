package utilities

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rollcall-backend/internal/model"
)

// Secret keys, overridable from the environment.
var (
	accessSecret  = []byte("rollcall-access-secret")
	refreshSecret = []byte("rollcall-refresh-secret")
)

// Token expiration times
const (
	AccessTokenExpiry  = time.Hour * 8
	RefreshTokenExpiry = time.Hour * 24 * 7
)

// LoadJWTSecrets replaces the built-in secrets with values from the
// named environment variables when set.
func LoadJWTSecrets(accessEnv, refreshEnv string) {
	if v := os.Getenv(accessEnv); v != "" {
		accessSecret = []byte(v)
	}
	if v := os.Getenv(refreshEnv); v != "" {
		refreshSecret = []byte(v)
	}
}

// Claims struct
type Claims struct {
	AdminID uint   `json:"admin_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateTokens creates both access and refresh tokens
func GenerateTokens(admin *model.Admin) (string, string, error) {
	accessToken, err := generateToken(admin, accessSecret, AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := generateToken(admin, refreshSecret, RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateToken verifies the token and extracts claims
func ValidateToken(tokenStr string, isRefresh bool) (*Claims, error) {
	secret := accessSecret
	if isRefresh {
		secret = refreshSecret
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, errors.New("invalid or malformed token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	if claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token has expired")
	}

	return claims, nil
}

// RefreshTokens generates a new access and refresh token using a valid refresh token
func RefreshTokens(refreshToken string) (string, string, error) {
	claims, err := ValidateToken(refreshToken, true)
	if err != nil {
		return "", "", errors.New("invalid or expired refresh token")
	}

	newAccessToken, newRefreshToken, err := GenerateTokens(&model.Admin{
		ID:    claims.AdminID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
	if err != nil {
		return "", "", errors.New("failed to generate new tokens")
	}

	return newAccessToken, newRefreshToken, nil
}

// Helper function to generate JWT token
func generateToken(admin *model.Admin, secret []byte, expiry time.Duration) (string, error) {
	claims := &Claims{
		AdminID: admin.ID,
		Name:    admin.Name,
		Email:   admin.Email,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   admin.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
