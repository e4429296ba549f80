package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFreshTokenRequiresIdentity(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	if _, err := j.FreshToken(context.Background(), true); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	j.SetIdentity(&Identity{SubjectID: "u1", Email: "a@b.com"})

	token, err := j.FreshToken(context.Background(), true)
	if err != nil {
		t.Fatalf("fresh token: %v", err)
	}
	claims, err := j.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.SubjectID != "u1" || claims.Email != "a@b.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter := NewJWT("secret-a", time.Hour)
	minter.SetIdentity(&Identity{SubjectID: "u1"})
	token, err := minter.FreshToken(context.Background(), true)
	if err != nil {
		t.Fatalf("fresh token: %v", err)
	}

	verifier := NewJWT("secret-b", time.Hour)
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	if _, err := j.Verify(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestFreshTokenCacheAndForce(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	j.SetIdentity(&Identity{SubjectID: "u1"})
	ctx := context.Background()

	first, err := j.FreshToken(ctx, false)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := j.FreshToken(ctx, false)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Fatalf("unforced calls should reuse the cached token")
	}
	// Forced mints carry a fresh iat; they must still verify.
	forced, err := j.FreshToken(ctx, true)
	if err != nil {
		t.Fatalf("forced: %v", err)
	}
	if _, err := j.Verify(ctx, forced); err != nil {
		t.Fatalf("forced token invalid: %v", err)
	}
}

func TestSignOutDiscardsCachedToken(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	j.SetIdentity(&Identity{SubjectID: "u1"})
	if _, err := j.FreshToken(context.Background(), false); err != nil {
		t.Fatalf("mint: %v", err)
	}

	j.SetIdentity(nil)
	if _, err := j.FreshToken(context.Background(), false); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated after sign-out", err)
	}
}

func TestOnChangeFiresImmediatelyWithCurrent(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	j.SetIdentity(&Identity{SubjectID: "u1"})

	var got []*Identity
	cancel := j.OnChange(func(id *Identity) { got = append(got, id) })
	defer cancel()

	if len(got) != 1 || got[0] == nil || got[0].SubjectID != "u1" {
		t.Fatalf("attach delivery = %#v", got)
	}

	j.SetIdentity(nil)
	if len(got) != 2 || got[1] != nil {
		t.Fatalf("sign-out delivery = %#v", got)
	}

	cancel()
	j.SetIdentity(&Identity{SubjectID: "u2"})
	if len(got) != 2 {
		t.Fatalf("cancelled listener must not fire")
	}
}
