package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminToken(t *testing.T) {
	m := NewManager("test-secret", "bayarcash")

	raw, err := m.GenerateAdminToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateAdminToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := NewManager("test-secret", "bayarcash")

	expired, err := m.GenerateAdminToken("ops", -time.Minute)
	require.NoError(t, err)
	_, err = m.ValidateAdminToken(expired)
	assert.Error(t, err)

	other, err := NewManager("other-secret", "bayarcash").GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)
	_, err = m.ValidateAdminToken(other)
	assert.Error(t, err)

	wrongIssuer, err := NewManager("test-secret", "someone-else").GenerateAdminToken("ops", time.Hour)
	require.NoError(t, err)
	_, err = m.ValidateAdminToken(wrongIssuer)
	assert.Error(t, err)

	customer := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bayarcash",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := customer.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.ValidateAdminToken(raw)
	assert.Error(t, err)
}
