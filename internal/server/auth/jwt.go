package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered claims plus the id of the
// user the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// Token is a signed bearer token and the moment it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenService issues and verifies HMAC-signed bearer tokens.
type TokenService struct {
	secret   []byte
	method   jwt.SigningMethod
	validity time.Duration
	now      func() time.Time
}

// NewTokenService returns a TokenService signing with alg (HS256, HS384 or
// HS512) and the given secret. Issued tokens live for validity.
func NewTokenService(secret string, alg string, validity time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("empty token secret")
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	if validity <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %s", validity)
	}
	return &TokenService{
		secret:   []byte(secret),
		method:   method,
		validity: validity,
		now:      time.Now,
	}, nil
}

// Issue signs a token for userID that expires after the configured validity.
func (s *TokenService) Issue(userID int64) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.validity)

	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{Value: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns the user id it carries. An expired token yields
// common.ErrTokenExpired; anything else wrong yields common.ErrMalformedToken.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrMalformedToken
	}

	if !token.Valid || claims.UserID <= 0 {
		return 0, common.ErrMalformedToken
	}

	return claims.UserID, nil
}
