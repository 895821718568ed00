package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "github.com/navikt/dp-rapportering/pkg/domain-errors"
)

// Claims are the token claims this service trusts. Claimant tokens carry the
// national ident in "pid"; caseworker tokens carry the internal NAV ident.
type Claims struct {
	Ident    string `json:"pid,omitempty"`
	NAVIdent string `json:"nav_ident,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

const RoleCaseworker = "caseworker"

// IsCaseworker reports whether the token belongs to a caseworker.
func (c *Claims) IsCaseworker() bool {
	return c.Role == RoleCaseworker
}

// ActorID returns the id to attribute actions to: the NAV ident for
// caseworkers, the national ident otherwise.
func (c *Claims) ActorID() string {
	if c.IsCaseworker() && c.NAVIdent != "" {
		return c.NAVIdent
	}
	return c.Ident
}

// JWTService validates (and, for tests and local tooling, issues) access
// tokens. Real token issuing belongs to the identity provider; this service
// only needs the shared signing key.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey, issuer string) *JWTService {
	return &JWTService{signingKey: []byte(signingKey), issuer: issuer}
}

// GenerateToken issues a signed token. Test and local-development use only.
func (s *JWTService) GenerateToken(ident, navIdent, role string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Ident:    ident,
		NAVIdent: navIdent,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token string.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
