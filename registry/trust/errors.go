package trust

import (
	"errors"
	"fmt"
)

// Sentinel errors for the trust subsystem. Every failure surfaced by this
// package wraps one of these (or is one of the struct errors below), so
// callers can branch on the kind with errors.Is and errors.As. All are
// terminal outcomes of a single call; nothing here is retried internally.
var (
	// ErrKeyNotFound means the signature references a key ID absent from the store.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyExpired means the key exists but has passed its expiration date.
	ErrKeyExpired = errors.New("key expired")
	// ErrKeyRevoked means the key has been revoked.
	ErrKeyRevoked = errors.New("key revoked")
	// ErrInvalidSignature means the signature failed decoding, algorithm
	// matching, or the cryptographic check itself.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrUnsupportedAlgorithm means an algorithm name could not be parsed.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrKeyEncoding means PEM or PKCS#8/PKIX key material could not be
	// parsed or encoded.
	ErrKeyEncoding = errors.New("key encoding error")
	// ErrSigning means the signing primitive itself failed.
	ErrSigning = errors.New("signing error")
	// ErrIO wraps file-system failures during hashing or store persistence.
	ErrIO = errors.New("io error")
	// ErrSerialization means a key document could not be decoded or encoded.
	ErrSerialization = errors.New("serialization error")
)

// HashMismatchError reports that the computed digest of the supplied content
// differs from the digest the signature covers.
type HashMismatchError struct {
	Expected string
	Actual   string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// InsufficientTrustError reports that a cryptographically valid signature
// was made by a key below the required trust level.
type InsufficientTrustError struct {
	Required TrustLevel
	Actual   TrustLevel
}

func (e *InsufficientTrustError) Error() string {
	return fmt.Sprintf("insufficient trust level: required %s, got %s", e.Required, e.Actual)
}
