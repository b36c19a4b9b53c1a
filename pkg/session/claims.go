package session

import (
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var accessTokenAlgs = []jose.SignatureAlgorithm{
	jose.RS256, jose.RS384, jose.RS512,
	jose.PS256, jose.ES256, jose.EdDSA,
	jose.HS256,
}

type accessTokenClaims struct {
	UserNumber string `json:"user_number"`
	UserRole   string `json:"user_role"`
}

// withTokenClaims fills the missing identity fields and expiry of c from
// the claims of its access token. The token is not verified: the client
// never holds the signing key and only reads what the backend told it.
// An opaque token is accepted as long as c is already complete.
func withTokenClaims(c Credentials) (Credentials, error) {
	if c.AccessToken == "" {
		return c, errors.New("missing access token")
	}
	if c.complete() && !c.ExpiresAt.IsZero() {
		return c, nil
	}

	standard, custom, err := parseAccessToken(c.AccessToken)
	if err != nil {
		if c.complete() {
			return c, nil
		}
		return c, err
	}

	if c.UserID == "" {
		c.UserID = custom.UserNumber
	}
	if c.Role == "" {
		c.Role = Role(custom.UserRole)
	}
	if c.ExpiresAt.IsZero() && standard.Expiry != nil {
		c.ExpiresAt = standard.Expiry.Time()
	}

	return c, nil
}

func parseAccessToken(raw string) (jwt.Claims, accessTokenClaims, error) {
	var (
		standard jwt.Claims
		custom   accessTokenClaims
	)

	token, err := jwt.ParseSigned(raw, accessTokenAlgs)
	if err != nil {
		return standard, custom, fmt.Errorf("parsing access token: %w", err)
	}

	if err := token.UnsafeClaimsWithoutVerification(&standard, &custom); err != nil {
		return standard, custom, fmt.Errorf("reading access token claims: %w", err)
	}

	return standard, custom, nil
}
