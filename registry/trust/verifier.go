package trust

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// PackageVerifier checks signatures against content using keys from a
// borrowed KeyStore. The verifier never mutates the store; the store must
// not be mutated concurrently with a verification call, and the verifier
// should not be retained past the store it was built around.
type PackageVerifier struct {
	store *KeyStore
}

// NewPackageVerifier creates a verifier reading from the given key store.
func NewPackageVerifier(store *KeyStore) *PackageVerifier {
	return &PackageVerifier{store: store}
}

// VerifySignature checks sig against content. The checks run in a fixed
// order and stop at the first failure: key lookup, revocation, expiry,
// algorithm match, hash binding, signature decoding, and finally the
// algorithm-specific cryptographic check over the digest string's UTF-8
// bytes.
//
// For ContentBoth only the manifest digest is recomputed from content;
// checking the package half means a separate VerifyHash of the package
// bytes against SignedContent.PackageHash.
func (v *PackageVerifier) VerifySignature(sig Signature, content []byte) (VerificationResult, error) {
	key, ok := v.store.GetKey(sig.KeyID)
	if !ok {
		return VerificationResult{}, fmt.Errorf("%w: %s", ErrKeyNotFound, sig.KeyID)
	}

	// Revocation is checked before expiry: a key that is both revoked and
	// expired is reported as revoked.
	if key.Revoked {
		return VerificationResult{}, fmt.Errorf("%w: %s", ErrKeyRevoked, sig.KeyID)
	}
	if !key.IsValid() {
		return VerificationResult{}, fmt.Errorf("%w: %s", ErrKeyExpired, sig.KeyID)
	}

	// A signature claiming a different algorithm than the key's is rejected
	// before any cryptographic work, even if the bytes would verify under
	// the claimed algorithm.
	if key.Algorithm != sig.Algorithm {
		return VerificationResult{}, fmt.Errorf("%w: algorithm mismatch: key uses %s, signature uses %s",
			ErrInvalidSignature, key.Algorithm, sig.Algorithm)
	}

	want := sig.SignedContent.signedHash()
	computed := HashBytes(content, sig.SignedContent.Algorithm)
	if computed != want {
		return VerificationResult{}, &HashMismatchError{Expected: want, Actual: computed}
	}

	sigBytes, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("%w: invalid base64: %v", ErrInvalidSignature, err)
	}

	verified, err := verifyDigest(key.PublicKeyPEM, sig.Algorithm, want, sigBytes)
	if err != nil {
		return VerificationResult{}, err
	}
	if !verified {
		return VerificationResult{}, fmt.Errorf("%w: cryptographic verification failed", ErrInvalidSignature)
	}

	return VerificationResult{
		Valid:      true,
		KeyID:      sig.KeyID,
		TrustLevel: key.TrustLevel,
		Timestamp:  sig.Timestamp,
	}, nil
}

// VerifyTrust verifies sig against content and additionally requires the
// signing key's trust level to be at least required. This is the only entry
// point that enforces a minimum-trust policy; VerifySignature alone makes
// no policy judgment.
func (v *PackageVerifier) VerifyTrust(sig Signature, content []byte, required TrustLevel) (VerificationResult, error) {
	result, err := v.VerifySignature(sig, content)
	if err != nil {
		return VerificationResult{}, err
	}
	if result.TrustLevel < required {
		return VerificationResult{}, &InsufficientTrustError{Required: required, Actual: result.TrustLevel}
	}
	return result, nil
}

// verifyDigest dispatches to the algorithm-specific check. The signature is
// verified against the digest string's bytes, not the original content.
func verifyDigest(publicKeyPEM string, algorithm SignatureAlgorithm, digest string, sig []byte) (bool, error) {
	switch algorithm {
	case Ed25519:
		return verifyEd25519(publicKeyPEM, digest, sig)
	case ECDSAP256:
		return verifyECDSAP256(publicKeyPEM, digest, sig)
	case RSAPSS4096:
		return verifyRSA(publicKeyPEM, digest, sig)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

func verifyEd25519(publicKeyPEM, digest string, sig []byte) (bool, error) {
	pub, err := parseEd25519PublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, fmt.Errorf("%w: signature length %d, want %d", ErrInvalidSignature, len(sig), ed25519.SignatureSize)
	}
	return ed25519.Verify(pub, []byte(digest), sig), nil
}

func verifyECDSAP256(publicKeyPEM, digest string, sig []byte) (bool, error) {
	pub, err := parseECDSAP256PublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}
	sum := sha256.Sum256([]byte(digest))
	return ecdsa.VerifyASN1(pub, sum[:], sig), nil
}

// verifyRSA checks a PKCS#1 v1.5 signature over SHA-256. See signRSA for
// why the scheme is v1.5 despite the algorithm's wire name.
func verifyRSA(publicKeyPEM, digest string, sig []byte) (bool, error) {
	pub, err := parseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}
	sum := sha256.Sum256([]byte(digest))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], sig) == nil, nil
}
