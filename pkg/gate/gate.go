// Package gate decides whether an entered password unlocks the report
// journal. It is a deterrent, not an access control boundary: attempts are
// unlimited and the reference digest ships with the binary.
package gate

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// DefaultReference is the SHA-256 hex digest of the access password.
const DefaultReference = "42ad2290d080fa3c7e4b88fc2d3382887a9509c9fa15771a0977fd4982f0b0cd"

const (
	// ErrorDisplay is how long a failed attempt message stays visible.
	ErrorDisplay = 2 * time.Second
	// ShakeDuration is the length of the failed attempt shake cue.
	ShakeDuration = 600 * time.Millisecond
)

// ErrAuthFailure is returned for a password that does not match.
var ErrAuthFailure = errors.New("gate: incorrect password")

// Digest returns the lowercase hex SHA-256 of the UTF-8 text.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Recorder keeps the unlock state for the rest of the session.
type Recorder interface {
	Unlock() error
}

// Gate compares candidate passwords against a reference digest.
type Gate struct {
	Reference string
}

// New returns a Gate for reference, falling back to DefaultReference.
func New(reference string) *Gate {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = DefaultReference
	}
	if !isArgon2(reference) {
		reference = strings.ToLower(reference)
	}
	return &Gate{Reference: reference}
}

// Verify reports whether candidate matches the reference. An error means
// the reference itself is unusable.
func (g *Gate) Verify(ctx context.Context, candidate string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ref := g.Reference
	if ref == "" {
		ref = DefaultReference
	}
	if isArgon2(ref) {
		return verifyArgon2(candidate, ref)
	}
	got := Digest(candidate)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(ref))) == 1, nil
}

// Result is the outcome of an unlock attempt along with the feedback the
// caller should show on failure.
type Result struct {
	Unlocked bool
	Err      error
	// ErrorFor and ShakeFor are set on failure.
	ErrorFor time.Duration
	ShakeFor time.Duration
}

// Attempt verifies candidate and, on success, records the unlock in rec. On
// failure the caller should clear its input and show the error for ErrorFor.
func (g *Gate) Attempt(ctx context.Context, rec Recorder, candidate string) Result {
	ok, err := g.Verify(ctx, candidate)
	if err != nil {
		return Result{Err: err, ErrorFor: ErrorDisplay, ShakeFor: ShakeDuration}
	}
	if !ok {
		return Result{Err: ErrAuthFailure, ErrorFor: ErrorDisplay, ShakeFor: ShakeDuration}
	}
	if rec != nil {
		if err := rec.Unlock(); err != nil {
			// Unlocked for this process even if the flag could not be shared.
			return Result{Unlocked: true, Err: err}
		}
	}
	return Result{Unlocked: true}
}
