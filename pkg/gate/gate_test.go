package gate

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	unlocks int
	err     error
}

func (r *recorder) Unlock() error {
	r.unlocks++
	return r.err
}

func TestDigest(t *testing.T) {
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Digest("abc"); got != want {
		t.Fatalf("Digest(abc) = %s", got)
	}
	if len(Digest("")) != 64 {
		t.Fatalf("expected 64 hex characters")
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	g := New(Digest("open sesame"))

	ok, err := g.Verify(ctx, "open sesame")
	if err != nil || !ok {
		t.Fatalf("expected match, got %v %v", ok, err)
	}
	for i := 0; i < 50; i++ {
		ok, err := g.Verify(ctx, "open sesame ")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if ok {
			t.Fatalf("attempt %d: wrong password matched", i)
		}
	}
}

func TestVerifyUppercaseReference(t *testing.T) {
	g := &Gate{Reference: "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD"}
	if ok, _ := g.Verify(context.Background(), "abc"); !ok {
		t.Fatalf("reference comparison should ignore hex case")
	}
}

func TestNewDefaultsReference(t *testing.T) {
	if g := New("  "); g.Reference != DefaultReference {
		t.Fatalf("expected default reference, got %q", g.Reference)
	}
}

func TestAttemptFailureNeverUnlocks(t *testing.T) {
	rec := &recorder{}
	g := New(Digest("right"))
	for i := 0; i < 5; i++ {
		res := g.Attempt(context.Background(), rec, "wrong")
		if res.Unlocked {
			t.Fatalf("attempt %d unlocked", i)
		}
		if !errors.Is(res.Err, ErrAuthFailure) {
			t.Fatalf("expected ErrAuthFailure, got %v", res.Err)
		}
		if res.ErrorFor != ErrorDisplay || res.ShakeFor != ShakeDuration {
			t.Fatalf("unexpected feedback timings: %+v", res)
		}
	}
	if rec.unlocks != 0 {
		t.Fatalf("recorder should not be touched on failure")
	}
}

func TestAttemptSuccessRecords(t *testing.T) {
	rec := &recorder{}
	res := New(Digest("right")).Attempt(context.Background(), rec, "right")
	if !res.Unlocked || res.Err != nil {
		t.Fatalf("expected unlock, got %+v", res)
	}
	if rec.unlocks != 1 {
		t.Fatalf("expected one recorded unlock, got %d", rec.unlocks)
	}

	rec = &recorder{err: errors.New("disk full")}
	res = New(Digest("right")).Attempt(context.Background(), rec, "right")
	if !res.Unlocked || res.Err == nil {
		t.Fatalf("expected unlock with warning, got %+v", res)
	}
}

func TestVerifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("").Verify(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestArgon2Reference(t *testing.T) {
	ref, err := HashArgon2("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	g := New(ref)
	if ok, err := g.Verify(context.Background(), "hunter2"); err != nil || !ok {
		t.Fatalf("expected match, got %v %v", ok, err)
	}
	if ok, err := g.Verify(context.Background(), "hunter3"); err != nil || ok {
		t.Fatalf("expected mismatch, got %v %v", ok, err)
	}
}

func TestArgon2Malformed(t *testing.T) {
	g := New("$argon2id$v=19$garbage")
	if _, err := g.Verify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for malformed reference")
	}
	res := g.Attempt(context.Background(), nil, "x")
	if res.Unlocked || res.Err == nil || errors.Is(res.Err, ErrAuthFailure) {
		t.Fatalf("expected configuration error, got %+v", res)
	}
}

func TestArgon2BadParameters(t *testing.T) {
	// "c2FsdHNhbHQ" is "saltsalt", "aGFzaA" is "hash".
	refs := map[string]string{
		"zero rounds":    "$argon2id$v=19$m=65536,t=0,p=4$c2FsdHNhbHQ$aGFzaA",
		"zero threads":   "$argon2id$v=19$m=65536,t=1,p=0$c2FsdHNhbHQ$aGFzaA",
		"threads > 255":  "$argon2id$v=19$m=65536,t=1,p=256$c2FsdHNhbHQ$aGFzaA",
		"memory too low": "$argon2id$v=19$m=16,t=1,p=4$c2FsdHNhbHQ$aGFzaA",
		"empty hash":     "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHQ$",
	}
	for name, ref := range refs {
		t.Run(name, func(t *testing.T) {
			ok, err := New(ref).Verify(context.Background(), "x")
			if ok || !errors.Is(err, ErrArgon2Params) {
				t.Fatalf("Verify() = %v, %v; want ErrArgon2Params", ok, err)
			}
			res := New(ref).Attempt(context.Background(), nil, "x")
			if res.Unlocked || !errors.Is(res.Err, ErrArgon2Params) {
				t.Fatalf("Attempt() = %+v", res)
			}
		})
	}
}
