package gate

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Parameters written by HashArgon2.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

func isArgon2(ref string) bool {
	return strings.HasPrefix(ref, "$argon2id$")
}

// HashArgon2 encodes password as $argon2id$v=19$m=65536,t=1,p=4$salt$hash,
// usable as a gate reference.
func HashArgon2(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("gate: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// argon2Params is a decoded $argon2id$ reference.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

// ErrArgon2Params is returned for a reference whose cost parameters the
// KDF cannot run with.
var ErrArgon2Params = errors.New("gate: invalid argon2 parameters")

func parseArgon2(encoded string) (argon2Params, error) {
	var p argon2Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, fmt.Errorf("gate: invalid argon2 reference")
	}
	if parts[1] != "argon2id" {
		return p, fmt.Errorf("gate: not an argon2id reference")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return p, fmt.Errorf("gate: parse argon2 parameters: %w", err)
	}
	switch {
	case time < 1:
		return p, fmt.Errorf("%w: t=%d", ErrArgon2Params, time)
	case threads < 1 || threads > 255:
		return p, fmt.Errorf("%w: p=%d", ErrArgon2Params, threads)
	case memory < 8*threads:
		return p, fmt.Errorf("%w: m=%d below 8*p", ErrArgon2Params, memory)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, fmt.Errorf("gate: decode salt: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, fmt.Errorf("gate: decode hash: %w", err)
	}
	if len(hash) == 0 {
		return p, fmt.Errorf("%w: empty hash", ErrArgon2Params)
	}
	return argon2Params{memory: memory, time: time, threads: uint8(threads), salt: salt, hash: hash}, nil
}

func verifyArgon2(password, encoded string) (bool, error) {
	p, err := parseArgon2(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(p.hash, got) == 1, nil
}
