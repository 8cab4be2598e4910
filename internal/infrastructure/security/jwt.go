package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/baechuer/blog-service/internal/application/auth"
	"github.com/baechuer/blog-service/internal/domain"
)

var signingMethod = jwt.SigningMethodHS256

// clockSkew is tolerated on exp, iat and nbf across instances.
const clockSkew = 5 * time.Second

// JWTSigner issues and checks HS256 access tokens carrying uid, name and
// role. Tokens without exp, or from another issuer, are rejected.
type JWTSigner struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewJWTSigner(secret, issuer string) *JWTSigner {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTSigner{secret: []byte(secret), issuer: issuer, parser: jwt.NewParser(opts...)}
}

type accessClaims struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignAccessToken(c auth.TokenClaims, ttl time.Duration) (string, error) {
	issued := time.Now()
	claims := accessClaims{
		UserID: c.UserID,
		Name:   c.Name,
		Role:   c.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) key(*jwt.Token) (any, error) { return s.secret, nil }

func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	var claims accessClaims
	if _, err := s.parser.ParseWithClaims(token, &claims, s.key); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenExpired()
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	return claims.toTokenClaims()
}

// toTokenClaims rejects a signed token whose identity fields are unusable.
func (c accessClaims) toTokenClaims() (auth.TokenClaims, error) {
	role := domain.Role(c.Role)
	if c.UserID == "" || !role.Valid() {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	return auth.TokenClaims{
		UserID: c.UserID,
		Name:   c.Name,
		Role:   role,
		Exp:    c.ExpiresAt.Time,
	}, nil
}
