package jwtverify

import (
	"context"
	"testing"
	"time"

	"cat-care-console/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestVerify_RoundTrip(t *testing.T) {
	tok, err := Mint(secret, "catcare", auth.Claims{UserID: "u-1", Email: "a@b.id", Role: auth.RoleCaretaker}, time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := New(secret, "catcare").Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "a@b.id", Role: auth.RoleCaretaker}, claims)
}

func TestVerify_UnknownRoleIsViewer(t *testing.T) {
	tok, err := Mint(secret, "", auth.Claims{UserID: "u-1", Role: "superuser"}, time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := New(secret, "").Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleViewer, claims.Role)
}

func TestVerify_Rejects(t *testing.T) {
	v := New(secret, "catcare")
	ctx := context.Background()

	expired, err := Mint(secret, "catcare", auth.Claims{UserID: "u"}, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := Mint(secret, "other", auth.Claims{UserID: "u"}, time.Now(), time.Hour)
	require.NoError(t, err)
	wrongSecret, err := Mint("nope", "catcare", auth.Claims{UserID: "u"}, time.Now(), time.Hour)
	require.NoError(t, err)
	noSubject, err := Mint(secret, "catcare", auth.Claims{}, time.Now(), time.Hour)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "u", Issuer: "catcare", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"wrong secret": wrongSecret,
		"hs512":        hs512,
		"garbage":      "a.b.c",
	} {
		_, err := v.Verify(ctx, tok)
		assert.Error(t, err, name)
	}

	_, err = v.Verify(ctx, noSubject)
	assert.ErrorIs(t, err, ErrMissingUser)
	_, err = v.Verify(ctx, "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
	_, err = New("", "").Verify(ctx, "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
