// Package trust provides package signing and verification primitives for
// Flowline. It manages trusted public keys, computes content digests, and
// creates and checks signatures over package manifests and archives.
//
// The package performs no network access and enforces no installation
// policy beyond VerifyTrust: callers supply content bytes, signatures, and
// a populated KeyStore, and receive a VerificationResult or a typed error.
package trust

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TrustLevel classifies how much authority a key's signatures carry.
// Higher ordinal values indicate stronger trust guarantees; the ordering is
// a fixed enumeration and is compared numerically when enforcing
// minimum-trust requirements.
type TrustLevel int

const (
	// TrustLocal is a key generated and trusted only on this machine.
	TrustLocal TrustLevel = iota
	// TrustCommunity is a key belonging to a community publisher.
	TrustCommunity
	// TrustVerified is a key whose owner has been identity-verified.
	TrustVerified
	// TrustOfficial is a key controlled by the Flowline release team.
	TrustOfficial
)

// String returns the human-readable name of the trust level.
func (t TrustLevel) String() string {
	switch t {
	case TrustLocal:
		return "local"
	case TrustCommunity:
		return "community"
	case TrustVerified:
		return "verified"
	case TrustOfficial:
		return "official"
	default:
		return fmt.Sprintf("TrustLevel(%d)", int(t))
	}
}

// ParseTrustLevel parses a trust level string. Returns an error for unknown values.
func ParseTrustLevel(s string) (TrustLevel, error) {
	switch strings.ToLower(s) {
	case "local":
		return TrustLocal, nil
	case "community":
		return TrustCommunity, nil
	case "verified":
		return TrustVerified, nil
	case "official":
		return TrustOfficial, nil
	default:
		return 0, fmt.Errorf("unknown trust level: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TrustLevel) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TrustLevel) UnmarshalText(text []byte) error {
	level, err := ParseTrustLevel(string(text))
	if err != nil {
		return err
	}
	*t = level
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t TrustLevel) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TrustLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// VerificationResult holds the outcome of a successful signature
// verification. It is produced fresh per call and never persisted.
type VerificationResult struct {
	// Valid reports whether the cryptographic check passed.
	Valid bool
	// KeyID identifies the key the signature was checked against.
	KeyID string
	// TrustLevel is the trust level of the signing key.
	TrustLevel TrustLevel
	// Timestamp is the advisory timestamp carried by the signature.
	Timestamp string
}

// String returns a one-line display form of the result.
func (r VerificationResult) String() string {
	status := "INVALID"
	if r.Valid {
		status = "VALID"
	}
	return fmt.Sprintf("signature %s (key: %s, trust: %s, time: %s)",
		status, r.KeyID, r.TrustLevel, r.Timestamp)
}
