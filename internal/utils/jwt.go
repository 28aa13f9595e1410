package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel errors for the verification failure taxonomy
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Verification failure taxonomy.  Callers compare with errors.Is; every
// failure from VerifySession maps onto exactly one of these.
var (
	// ErrInvalidFormat is returned when the token is not three base64url
	// parts joined by dots, or a part cannot be decoded.
	ErrInvalidFormat = errors.New("invalid token format")
	// ErrInvalidSignature is returned when the HMAC over header.claims does
	// not match, including tokens signed with a different secret or a
	// non-HMAC algorithm.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired is returned when the embedded expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
)

// SessionClaims is the identity payload carried by a session token.  The
// token is self-contained: no session row exists server-side, so these
// claims are everything the resolver knows about the caller until a user
// lookup by ID.
type SessionClaims struct {
	UserID int64  `json:"id"`    // users.id of the authenticated user
	Email  string `json:"email"` // email at issue time (informational)
	Role   string `json:"role"`  // role at issue time, checked by RequireRole
	jwt.RegisteredClaims
}

// IssueSession builds and signs an HS256 session token for a user.  The
// token embeds an expiry ttlDays in the future; the login handler sets the
// cookie max-age to the same span so both bounds agree.  Tokens presented
// through the bearer-header path are therefore equally short-lived.
func IssueSession(secret string, userID int64, email, role string, ttlDays int) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifySession parses and verifies a session token.  The signing method is
// pinned to HS256 and the library compares signatures in constant time, so
// tampering with any part of the token (or replaying one signed with a
// different secret) fails closed.  On success the decoded claims are
// returned.
func VerifySession(secret, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrInvalidFormat
		default:
			// Signature mismatches, wrong algorithms and unverifiable
			// tokens all land here.
			return nil, ErrInvalidSignature
		}
	}
	return claims, nil
}
