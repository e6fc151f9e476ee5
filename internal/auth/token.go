package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
)

// Claims is the single token schema shared by local and OAuth sessions.
//
// Local sessions carry only Subject (the account id) and Email; OAuth sessions
// set IsOAuth and embed the full provider profile so no store lookup is needed
// to resolve them. Subject for OAuth sessions is "{provider}-{email}".
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	IsOAuth   bool   `json:"isOAuth,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Username  string `json:"username,omitempty"`
	Picture   string `json:"picture,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Issuer produces and validates signed session tokens.
// Tokens are stateless: there is no server-side revocation list, expiry is the
// only terminal condition.
type Issuer struct {
	secret []byte
}

// NewIssuer constructs an Issuer with the given signing secret.
// An empty secret is a configuration error and must abort startup.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: token signing secret is empty", apperr.ErrConfiguration)
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// Issue signs the claims with the configured secret, stamping issue and expiry times.
func (i *Issuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token, returning its claims.
// Expired, malformed, or mis-signed tokens fail with apperr.ErrUnauthorized.
func (i *Issuer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthorized)
	}
	return claims, nil
}
