package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/seatplan-api/internal/models"
	appErrors "github.com/noah-isme/seatplan-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func plannerClaims(issuer string, expires time.Time) *models.JWTClaims {
	return &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RolePlanner,
		Email:  "planner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestValidateTokenAcceptsSignedClaims(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "idp"})
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), plannerClaims("idp", time.Now().Add(time.Hour)))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RolePlanner, claims.Role)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Issuer: "idp"})

	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), plannerClaims("idp", time.Now().Add(time.Hour))),
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), plannerClaims("idp", time.Now().Add(-time.Minute))),
		"wrong issuer": signToken(t, jwt.SigningMethodHS256, []byte("secret"), plannerClaims("elsewhere", time.Now().Add(time.Hour))),
		"wrong method": signToken(t, jwt.SigningMethodHS512, []byte("secret"), plannerClaims("idp", time.Now().Add(time.Hour))),
		"missing role": signToken(t, jwt.SigningMethodHS256, []byte("secret"), &models.JWTClaims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{Issuer: "idp"}}),
		"not a token":  "garbage",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}
