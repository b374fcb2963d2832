package utils

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
    hash, err := HashPassword("p@ssw0rd", 4)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    if hash == "" || hash == "p@ssw0rd" {
        t.Fatalf("unexpected hash %q", hash)
    }
    if !VerifyPassword(hash, "p@ssw0rd") {
        t.Fatal("expected verify ok")
    }
    if VerifyPassword(hash, "wrong") {
        t.Fatal("expected verify fail")
    }
}
