package trust

import "time"

// TrustedKey is a public key together with its provenance, trust label, and
// lifecycle flags. It is a plain value: copy it freely, but note that only
// Revoke mutates it, and that transition has no inverse.
type TrustedKey struct {
	// KeyID uniquely identifies the key within a store.
	KeyID string `yaml:"key_id" json:"key_id"`
	// PublicKeyPEM is the PKIX public key in PEM form.
	PublicKeyPEM string `yaml:"public_key_pem" json:"public_key_pem"`
	// Algorithm is the signature algorithm this key verifies.
	Algorithm SignatureAlgorithm `yaml:"algorithm" json:"algorithm"`
	// Owner is a display name for whoever controls the key.
	Owner string `yaml:"owner" json:"owner"`
	// TrustLevel is the caller-assigned trust label.
	TrustLevel TrustLevel `yaml:"trust_level" json:"trust_level"`
	// Created is when the key record was created.
	Created time.Time `yaml:"created" json:"created"`
	// Expires is the optional expiration time.
	Expires *time.Time `yaml:"expires,omitempty" json:"expires,omitempty"`
	// Revoked marks the key permanently invalid.
	Revoked bool `yaml:"revoked" json:"revoked"`
	// RevocationReason records why the key was revoked, if it was.
	RevocationReason string `yaml:"revocation_reason,omitempty" json:"revocation_reason,omitempty"`
	// Fingerprint is an optional precomputed digest of the public key, as
	// produced by ComputeKeyFingerprint.
	Fingerprint string `yaml:"fingerprint,omitempty" json:"fingerprint,omitempty"`
}

// NewEd25519Key creates a TrustedKey for an Ed25519 public key.
func NewEd25519Key(keyID, publicKeyPEM, owner string, level TrustLevel) TrustedKey {
	return newKey(keyID, publicKeyPEM, owner, level, Ed25519)
}

// NewECDSAP256Key creates a TrustedKey for an ECDSA P-256 public key.
func NewECDSAP256Key(keyID, publicKeyPEM, owner string, level TrustLevel) TrustedKey {
	return newKey(keyID, publicKeyPEM, owner, level, ECDSAP256)
}

// NewRSAPSSKey creates a TrustedKey for an RSA public key.
func NewRSAPSSKey(keyID, publicKeyPEM, owner string, level TrustLevel) TrustedKey {
	return newKey(keyID, publicKeyPEM, owner, level, RSAPSS4096)
}

func newKey(keyID, publicKeyPEM, owner string, level TrustLevel, alg SignatureAlgorithm) TrustedKey {
	return TrustedKey{
		KeyID:        keyID,
		PublicKeyPEM: publicKeyPEM,
		Algorithm:    alg,
		Owner:        owner,
		TrustLevel:   level,
		Created:      time.Now().UTC(),
	}
}

// WithExpiration returns a copy of the key that expires at the given time.
func (k TrustedKey) WithExpiration(expires time.Time) TrustedKey {
	k.Expires = &expires
	return k
}

// WithFingerprint returns a copy of the key with a precomputed fingerprint.
func (k TrustedKey) WithFingerprint(fingerprint string) TrustedKey {
	k.Fingerprint = fingerprint
	return k
}

// IsValid reports whether the key can be used for verification right now:
// not revoked, and not past its expiration if one is set.
func (k TrustedKey) IsValid() bool {
	if k.Revoked {
		return false
	}
	if k.Expires != nil {
		return k.Expires.After(time.Now())
	}
	return true
}

// Revoke permanently invalidates the key. There is no un-revoke: restoring
// a revoked key means constructing a new TrustedKey.
func (k *TrustedKey) Revoke(reason string) {
	k.Revoked = true
	k.RevocationReason = reason
}
