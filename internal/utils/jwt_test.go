package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
    at, err := NewAccessToken("secret", 42, "EMPLOYEE", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    if at.Token == "" {
        t.Fatal("expected non-empty token")
    }
    if until := time.Until(at.Exp); until < 14*time.Minute || until > 16*time.Minute {
        t.Fatalf("unexpected expiry %v", at.Exp)
    }

    tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    if err != nil || !tok.Valid {
        t.Fatalf("parse: %v valid=%v", err, tok.Valid)
    }
    claims := tok.Claims.(jwt.MapClaims)
    if claims["role"] != "EMPLOYEE" {
        t.Fatalf("unexpected role claim %v", claims["role"])
    }
    if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 42 {
        t.Fatalf("unexpected sub claim %v", claims["sub"])
    }
}

func TestAccessTokenWrongSecret(t *testing.T) {
    at, err := NewAccessToken("secret", 1, "CUSTOMER", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    if _, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
        return []byte("other"), nil
    }); err == nil {
        t.Fatal("expected signature mismatch")
    }
}

func TestRefreshTokenHashing(t *testing.T) {
    rt, err := NewRefreshToken(7)
    if err != nil {
        t.Fatalf("NewRefreshToken: %v", err)
    }
    if len(rt.Raw) != 96 {
        t.Fatalf("unexpected raw length %d", len(rt.Raw))
    }
    h1 := HashRefreshRaw(rt.Raw)
    if h1 != HashRefreshRaw(rt.Raw) {
        t.Fatal("hash must be deterministic")
    }
    other, _ := NewRefreshToken(7)
    if h1 == HashRefreshRaw(other.Raw) {
        t.Fatal("distinct tokens must not collide")
    }
}
