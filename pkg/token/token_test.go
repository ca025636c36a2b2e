package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbook/models"
)

func testUser() *models.User {
	return &models.User{ID: 42, Name: "Maria", Email: "maria@example.com"}
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-signing-key", 30)

	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	assert.True(t, issuer.Valid(tok))

	claims, err := issuer.Claims(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Maria", claims.Name)
	assert.Equal(t, "maria@example.com", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))

	subject, err := issuer.Subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", subject)
}

func TestExpiredTokenIsInvalid(t *testing.T) {
	// A negative TTL produces a token that is already past its expiry.
	issuer := NewIssuer("test-signing-key", -1)

	tok, err := issuer.Issue(testUser())
	require.NoError(t, err)

	assert.False(t, issuer.Valid(tok))
	_, err = issuer.Claims(tok)
	assert.Error(t, err)
}

func TestForeignSignatureIsInvalid(t *testing.T) {
	issuer := NewIssuer("key-one", 30)
	other := NewIssuer("key-two", 30)

	tok, err := other.Issue(testUser())
	require.NoError(t, err)

	assert.False(t, issuer.Valid(tok))
}

func TestMalformedTokenIsInvalid(t *testing.T) {
	issuer := NewIssuer("test-signing-key", 30)
	assert.False(t, issuer.Valid("not-a-token"))
	assert.False(t, issuer.Valid(""))
}
