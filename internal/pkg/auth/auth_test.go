package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/rental-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "rental-test"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "seller@example.com", RoleSeller)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, &Principal{ID: 42, Email: "seller@example.com", Role: RoleSeller}, claims.Principal())
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"

	token, err := NewJWTManager(other).GenerateAccessToken(1, "a@example.com", RoleCustomer)
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig()).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsNonAccessToken(t *testing.T) {
	cfg := testConfig()
	claims := &Claims{
		UserID:    3,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = NewJWTManager(cfg).ValidateAccessToken(token)
	assert.ErrorContains(t, err, "expected access")
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestPasswordManager(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("rent-it-now")
	require.NoError(t, err)
	assert.NoError(t, manager.VerifyPassword("rent-it-now", hash))
	assert.Error(t, manager.VerifyPassword("wrong-password", hash))

	_, err = manager.HashPassword("short")
	assert.Error(t, err)
}
