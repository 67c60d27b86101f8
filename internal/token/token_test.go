package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)
	id := uuid.New()

	signed, err := issuer.Issue(id, "student@campus.edu")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "student@campus.edu", claims.Email)

	subject, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, id, subject)
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret-a", 0).Issue(uuid.New(), "student@campus.edu")
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", 0).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Verify(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestNoExpiryByDefault(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)

	signed, err := issuer.Issue(uuid.New(), "student@campus.edu")
	require.NoError(t, err)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	signed, err := issuer.Issue(uuid.New(), "student@campus.edu")
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
