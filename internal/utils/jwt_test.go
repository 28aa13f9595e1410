package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueAndVerifySession(t *testing.T) {
	token, err := IssueSession(testSecret, 42, "user@example.com", "admin", 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifySession(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
}

func TestVerifySessionWrongSecret(t *testing.T) {
	token, err := IssueSession(testSecret, 1, "a@b.c", "user", 7)
	require.NoError(t, err)

	_, err = VerifySession("a-different-secret", token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySessionTamperedPayload(t *testing.T) {
	token, err := IssueSession(testSecret, 1, "a@b.c", "user", 7)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a character inside the claims segment; the signature no longer
	// covers the presented bytes.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = VerifySession(testSecret, tampered)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTokenExpired)
}

func TestVerifySessionMalformed(t *testing.T) {
	for _, token := range []string{"", "justone", "two.parts", "not a token at all"} {
		_, err := VerifySession(testSecret, token)
		require.ErrorIs(t, err, ErrInvalidFormat, "token %q", token)
	}
}

func TestVerifySessionExpired(t *testing.T) {
	token, err := IssueSession(testSecret, 1, "a@b.c", "user", -1)
	require.NoError(t, err)

	_, err = VerifySession(testSecret, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}
