package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp/ids"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	provider, err := ids.ParseProviderID("DE-GDF")
	require.NoError(t, err)
	in := Partner{Name: "gef", OperatorID: ids.MustOperatorID("DE*GEF"), ProviderID: provider}

	token, err := svc.GenerateToken(in)
	require.NoError(t, err)

	out, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.ActsFor(ids.MustOperatorID("DE*GEF")))
	assert.False(t, out.ActsFor(ids.MustOperatorID("DE*ABC")))
	assert.True(t, out.Represents(provider))
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	token, err := svc.GenerateToken(Partner{OperatorID: ids.MustOperatorID("DE*GEF")})
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Minute).ValidateToken(token)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.GenerateToken(Partner{Name: "nobody"})
	assert.Error(t, err)
}

func TestValidateTokenBadOperatorClaim(t *testing.T) {
	claims := Claims{OperatorID: "not an operator"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewTokenService("secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestPartnerContext(t *testing.T) {
	_, ok := PartnerFromContext(context.Background())
	assert.False(t, ok)

	p := Partner{OperatorID: ids.MustOperatorID("DE*GEF")}
	got, ok := PartnerFromContext(WithPartner(context.Background(), p))
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.False(t, got.Represents(ids.ProviderID{}))
}
