package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(userID int64, ttl time.Duration) models.JWTClaims {
	return models.JWTClaims{
		UserID: userID,
		Role:   models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService("secret")

	claims, err := svc.ValidateToken(signToken(t, jwt.SigningMethodHS256, []byte("secret"), claimsFor(20, time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, int64(20), claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewAuthService("secret")
	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(20, time.Hour)),
		"wrong method": signToken(t, jwt.SigningMethodHS512, []byte("secret"), claimsFor(20, time.Hour)),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), claimsFor(20, -time.Minute)),
		"missing user": signToken(t, jwt.SigningMethodHS256, []byte("secret"), claimsFor(0, time.Hour)),
		"not a token":  "abc.def",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
		})
	}
}
