// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for new hashes. Verification always honors the
// parameters embedded in the stored PHC string, so these can be tuned
// without invalidating existing hashes.
const (
	argonMemory  uint32 = 15000 // KiB
	argonTime    uint32 = 2
	argonThreads uint8  = 1
	argonSaltLen        = 16
	argonKeyLen  uint32 = 32
)

// HashPassword hashes a plain-text password with Argon2id and a random salt,
// returning the self-describing PHC string
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
func HashPassword(plainTextPassword string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plainTextPassword), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// CheckPasswordHash compares a plain-text password with a stored PHC hash
// using a constant-time comparison.
//
// A malformed stored hash is reported as a verification failure, not as a
// separate error: the caller's behaviour must be identical either way.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	memory, iterations, threads, salt, key, err := decodePHC(existingHash)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(plainTextPassword), salt, iterations, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

// dummyHash is a syntactically valid PHC string that no password produces.
// It exists so the login path can burn the same Argon2id work on the
// "no such user" branch as on the "wrong password" branch.
const dummyHash = "$argon2id$v=19$m=15000,t=2,p=1" +
	"$AAAAAAAAAAAAAAAAAAAAAA" +
	"$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// DummyCheck performs a full-cost verification against a constant hash.
// The result is always false and must be discarded.
func DummyCheck(plainTextPassword string) bool {
	return CheckPasswordHash(plainTextPassword, dummyHash)
}

// decodePHC splits and validates an Argon2id PHC string.
func decodePHC(encoded string) (memory uint32, iterations uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("sec: not an argon2id PHC string")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("sec: malformed PHC version: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("sec: unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("sec: malformed PHC parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("sec: malformed PHC salt: %w", err)
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("sec: malformed PHC hash: %w", err)
	}

	return memory, iterations, threads, salt, key, nil
}
