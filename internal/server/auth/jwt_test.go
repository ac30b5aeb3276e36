package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func newService(t *testing.T, secret, alg string, ttl time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService(secret, alg, ttl)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return s
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		s := newService(t, "super-secret", alg, time.Hour)

		tok, err := s.Issue(42)
		if err != nil {
			t.Fatalf("%s: Issue error: %v", alg, err)
		}
		if tok.Value == "" {
			t.Fatalf("%s: empty token", alg)
		}

		got, err := s.Verify(tok.Value)
		if err != nil {
			t.Fatalf("%s: Verify error: %v", alg, err)
		}
		if got != 42 {
			t.Fatalf("%s: user id mismatch: got %d want 42", alg, got)
		}
	}
}

func TestIssue_ExpiresAtFollowsValidity(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := newService(t, "k", "HS256", 90*time.Minute)
	s.now = func() time.Time { return fixed }

	tok, err := s.Issue(1)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if want := fixed.Add(90 * time.Minute); !tok.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", tok.ExpiresAt, want)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newService(t, "secret", "HS256", time.Minute)
	tok, err := s.Issue(7)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = s.Verify(tok.Value)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newService(t, "right-secret", "HS256", time.Hour).Issue(2)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newService(t, "wrong-secret", "HS256", time.Hour).Verify(tok.Value)
	if !errors.Is(err, common.ErrMalformedToken) {
		t.Fatalf("expected common.ErrMalformedToken, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithm(t *testing.T) {
	t.Parallel()

	tok, err := newService(t, "k", "HS512", time.Hour).Issue(3)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newService(t, "k", "HS256", time.Hour).Verify(tok.Value)
	if !errors.Is(err, common.ErrMalformedToken) {
		t.Fatalf("expected common.ErrMalformedToken, got %v", err)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           1,
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = newService(t, "k", "HS256", time.Hour).Verify(raw)
	if !errors.Is(err, common.ErrMalformedToken) {
		t.Fatalf("expected common.ErrMalformedToken, got %v", err)
	}
}

func TestVerify_MissingClaims(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	s := newService(t, "k", "HS256", time.Hour)

	cases := map[string]Claims{
		"no user id": {
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		},
		"no expiry": {UserID: 5},
	}

	for name, c := range cases {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
		if err != nil {
			t.Fatalf("%s: SignedString error: %v", name, err)
		}
		if _, err := s.Verify(raw); !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("%s: expected common.ErrMalformedToken, got %v", name, err)
		}
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", "HS256", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc", strings.Repeat("x", 40)} {
		if _, err := s.Verify(raw); !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("%q: expected common.ErrMalformedToken, got %v", raw, err)
		}
	}
}

func TestNewTokenService_InvalidSettings(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService("", "HS256", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenService("k", "RS256", time.Hour); err == nil {
		t.Fatalf("expected error for RS256")
	}
	if _, err := NewTokenService("k", "HS256", 0); err == nil {
		t.Fatalf("expected error for zero validity")
	}
}
