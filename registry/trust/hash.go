package trust

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"lukechampine.com/blake3"
)

// HashAlgorithm identifies a content digest function. All digests are
// rendered as lowercase hex.
type HashAlgorithm int

const (
	// SHA256 is SHA-2 with a 256-bit digest.
	SHA256 HashAlgorithm = iota
	// SHA384 is SHA-2 with a 384-bit digest.
	SHA384
	// SHA512 is SHA-2 with a 512-bit digest.
	SHA512
	// BLAKE3 is BLAKE3 with its default 256-bit digest.
	BLAKE3
)

// String returns the wire name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	case BLAKE3:
		return "blake3"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", int(a))
	}
}

// ParseHashAlgorithm parses a hash algorithm wire name.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch strings.ToLower(s) {
	case "sha256":
		return SHA256, nil
	case "sha384":
		return SHA384, nil
	case "sha512":
		return SHA512, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return 0, fmt.Errorf("%w: unknown hash algorithm %q", ErrUnsupportedAlgorithm, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a HashAlgorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *HashAlgorithm) UnmarshalText(text []byte) error {
	alg, err := ParseHashAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a HashAlgorithm) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *HashAlgorithm) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

// HashBytes computes the digest of data under the given algorithm and
// returns it as a lowercase hex string. It is deterministic and never fails;
// it panics if algorithm is not one of the declared HashAlgorithm values.
func HashBytes(data []byte, algorithm HashAlgorithm) string {
	switch algorithm {
	case SHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:])
	case SHA384:
		sum := sha512.Sum384(data)
		return hex.EncodeToString(sum[:])
	case SHA512:
		sum := sha512.Sum512(data)
		return hex.EncodeToString(sum[:])
	case BLAKE3:
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:])
	default:
		panic(fmt.Sprintf("trust: unknown hash algorithm %d", int(algorithm)))
	}
}

// HashFile reads the file at path fully into memory and hashes it.
func HashFile(path string, algorithm HashAlgorithm) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}
	return HashBytes(data, algorithm), nil
}

// HashReader reads r to EOF and hashes the contents.
func HashReader(r io.Reader, algorithm HashAlgorithm) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: reading content: %w", ErrIO, err)
	}
	return HashBytes(data, algorithm), nil
}

// VerifyHash reports whether data hashes to expectedHex under algorithm.
// A length mismatch returns false immediately; digests of equal length are
// compared in constant time so the check leaks nothing about the position
// of the first differing byte.
func VerifyHash(data []byte, expectedHex string, algorithm HashAlgorithm) bool {
	actual := HashBytes(data, algorithm)
	if len(actual) != len(expectedHex) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHex)) == 1
}
