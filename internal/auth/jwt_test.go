package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/config"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret: "test-signing-secret",
		Issuer:    "meridianps",
		Audience:  "portfolio-api",
		TokenTTL:  3600,
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	v := NewJWTValidator(testAuthConfig())
	userID := uuid.New()

	token, err := v.IssueToken(userID, "Dana Reyes", "dana.reyes@meridianps.io")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Dana Reyes", userCtx.DisplayName)
	assert.Equal(t, "dana.reyes@meridianps.io", userCtx.Email)
	assert.Equal(t, AuthTypeJWT, userCtx.AuthType)
	assert.False(t, userCtx.IsSystem())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	v := NewJWTValidator(testAuthConfig())
	token, err := v.IssueToken(uuid.New(), "Dana Reyes", "dana@meridianps.io")
	require.NoError(t, err)

	other := NewJWTValidator(&config.AuthConfig{
		JWTSecret: "a-different-secret",
		Issuer:    "meridianps",
		Audience:  "portfolio-api",
		TokenTTL:  3600,
	})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testAuthConfig()
	v := NewJWTValidator(cfg)

	claims := &Claims{
		Email: "dana@meridianps.io",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	cfg := testAuthConfig()
	v := NewJWTValidator(cfg)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsUnsignedAlg(t *testing.T) {
	cfg := testAuthConfig()
	v := NewJWTValidator(cfg)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	v := NewJWTValidator(testAuthConfig())
	_, err := v.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_EmailFallbackID(t *testing.T) {
	cfg := testAuthConfig()
	v := NewJWTValidator(cfg)

	claims := &Claims{
		Email: "dana@meridianps.io",
		RegisteredClaims: jwt.RegisteredClaims{
			// Non-UUID subject, as an external IdP might issue.
			Subject:   "dana.reyes",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	userCtx, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, userCtx.UserID)
	// Stable across validations of the same email.
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceOID, []byte("dana@meridianps.io")), userCtx.UserID)
}

func TestValidateToken_NoSecretConfigured(t *testing.T) {
	v := NewJWTValidator(&config.AuthConfig{})
	_, err := v.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
