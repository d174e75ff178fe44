package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker(testSecret)

	tok, err := tm.New("u_1", "a@example.com", RoleUser, time.Minute)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u_1", c.UserID)
	assert.Equal(t, "u_1", c.Subject)
	assert.Equal(t, "a@example.com", c.Email)
	assert.Equal(t, RoleUser, c.Role)
	assert.Equal(t, issuer, c.Issuer)
}

func TestTokenMaker_Expired(t *testing.T) {
	tm := NewTokenMaker(testSecret)
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := tm.New("u_1", "a@example.com", RoleUser, time.Minute)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_WrongSecret(t *testing.T) {
	tok, err := NewTokenMaker("another-secret-another-secret-xx").New("u_1", "a@example.com", RoleUser, time.Minute)
	require.NoError(t, err)

	_, err = NewTokenMaker(testSecret).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_RejectsForeignIssuerAndAlg(t *testing.T) {
	now := time.Now()

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u_1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u_1",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	})
	tok, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenMaker(testSecret).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "u_1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u_1",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	})
	tok, err = hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenMaker(testSecret).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_RequiresSubject(t *testing.T) {
	tok, err := NewTokenMaker(testSecret).New("", "a@example.com", RoleUser, time.Minute)
	require.NoError(t, err)

	_, err = NewTokenMaker(testSecret).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_Garbage(t *testing.T) {
	_, err := NewTokenMaker(testSecret).Parse("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
