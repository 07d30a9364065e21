package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/innledger/internal/auth"
)

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims auth.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func validClaims(userID uuid.UUID, role string) auth.Claims {
	return auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()
	token := sign(t, jwt.SigningMethodHS256, "secret", validClaims(userID, auth.RoleAccountant))

	claims, err := auth.ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, auth.RoleAccountant, claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, "secret-a", validClaims(uuid.New(), auth.RoleStaff))

	_, err := auth.ValidateToken("secret-b", token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_OnlyHS256(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS512, "secret", validClaims(uuid.New(), auth.RoleStaff))

	_, err := auth.ValidateToken("secret", token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	claims := validClaims(uuid.New(), auth.RoleStaff)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	_, err := auth.ValidateToken("secret", sign(t, jwt.SigningMethodHS256, "secret", claims))
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
