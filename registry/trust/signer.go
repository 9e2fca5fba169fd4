package trust

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// PackageSigner signs package content with a single private key. The
// (key ID, private key, algorithm) triple is fixed at construction. What is
// cryptographically signed is always the digest string's UTF-8 bytes, never
// the raw content.
type PackageSigner struct {
	keyID         string
	privateKeyPEM string
	algorithm     SignatureAlgorithm
}

// NewEd25519Signer creates a signer holding a PKCS#8 Ed25519 private key.
func NewEd25519Signer(keyID, privateKeyPEM string) *PackageSigner {
	return &PackageSigner{keyID: keyID, privateKeyPEM: privateKeyPEM, algorithm: Ed25519}
}

// NewECDSAP256Signer creates a signer holding a PKCS#8 ECDSA P-256 private key.
func NewECDSAP256Signer(keyID, privateKeyPEM string) *PackageSigner {
	return &PackageSigner{keyID: keyID, privateKeyPEM: privateKeyPEM, algorithm: ECDSAP256}
}

// NewRSAPSSSigner creates a signer holding a PKCS#8 RSA private key.
func NewRSAPSSSigner(keyID, privateKeyPEM string) *PackageSigner {
	return &PackageSigner{keyID: keyID, privateKeyPEM: privateKeyPEM, algorithm: RSAPSS4096}
}

// KeyID returns the signer's key identifier.
func (s *PackageSigner) KeyID() string { return s.keyID }

// Algorithm returns the signing algorithm.
func (s *PackageSigner) Algorithm() SignatureAlgorithm { return s.algorithm }

// SignManifest hashes manifest under hashAlgorithm and signs the digest.
func (s *PackageSigner) SignManifest(manifest []byte, hashAlgorithm HashAlgorithm) (Signature, error) {
	hash := HashBytes(manifest, hashAlgorithm)
	return s.newSignature(hash, ManifestContent(hash, hashAlgorithm))
}

// SignPackage hashes a package archive under hashAlgorithm and signs the digest.
func (s *PackageSigner) SignPackage(pkg []byte, hashAlgorithm HashAlgorithm) (Signature, error) {
	hash := HashBytes(pkg, hashAlgorithm)
	return s.newSignature(hash, PackageContent(hash, hashAlgorithm))
}

// SignBoth hashes both the manifest and the package archive. The manifest
// digest is the one cryptographically signed; the package digest travels
// alongside unsigned, for the caller to check against the package bytes
// with VerifyHash.
func (s *PackageSigner) SignBoth(manifest, pkg []byte, hashAlgorithm HashAlgorithm) (Signature, error) {
	manifestHash := HashBytes(manifest, hashAlgorithm)
	packageHash := HashBytes(pkg, hashAlgorithm)
	return s.newSignature(manifestHash, BothContent(manifestHash, packageHash, hashAlgorithm))
}

func (s *PackageSigner) newSignature(digest string, content SignedContent) (Signature, error) {
	sig, err := s.signDigest(digest)
	if err != nil {
		return Signature{}, err
	}
	return Signature{
		KeyID:         s.keyID,
		Algorithm:     s.algorithm,
		Signature:     base64.StdEncoding.EncodeToString(sig),
		SignedContent: content,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *PackageSigner) signDigest(digest string) ([]byte, error) {
	switch s.algorithm {
	case Ed25519:
		return s.signEd25519(digest)
	case ECDSAP256:
		return s.signECDSAP256(digest)
	case RSAPSS4096:
		return s.signRSA(digest)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, s.algorithm)
	}
}

func (s *PackageSigner) signEd25519(digest string) ([]byte, error) {
	key, err := parseEd25519PrivateKey(s.privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(key, []byte(digest)), nil
}

func (s *PackageSigner) signECDSAP256(digest string) ([]byte, error) {
	key, err := parseECDSAP256PrivateKey(s.privateKeyPEM)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(digest))
	sig, err := ecdsa.SignASN1(rand.Reader, key, sum[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return sig, nil
}

// signRSA signs with PKCS#1 v1.5 over SHA-256. The algorithm's wire name
// says PSS, but every deployed signature uses v1.5; switching padding would
// invalidate all of them.
func (s *PackageSigner) signRSA(digest string) ([]byte, error) {
	key, err := parseRSAPrivateKey(s.privateKeyPEM)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(digest))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, sum[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return sig, nil
}
