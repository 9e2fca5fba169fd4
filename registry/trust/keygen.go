package trust

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateEd25519Keypair creates a fresh Ed25519 key pair, returned as
// PKCS#8 private and PKIX public PEM.
func GenerateEd25519Keypair() (privateKeyPEM, publicKeyPEM string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("%w: generating Ed25519 key: %v", ErrKeyEncoding, err)
	}
	return encodeKeypair(priv, pub)
}

// GenerateECDSAP256Keypair creates a fresh ECDSA P-256 key pair, returned
// as PKCS#8 private and PKIX public PEM.
func GenerateECDSAP256Keypair() (privateKeyPEM, publicKeyPEM string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("%w: generating P-256 key: %v", ErrKeyEncoding, err)
	}
	return encodeKeypair(key, &key.PublicKey)
}

func encodeKeypair(priv, pub any) (string, string, error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", "", fmt.Errorf("%w: encoding private key: %v", ErrKeyEncoding, err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", "", fmt.Errorf("%w: encoding public key: %v", ErrKeyEncoding, err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return string(privPEM), string(pubPEM), nil
}

// ComputeKeyFingerprint hashes the PEM text of a public key with SHA-256
// and formats the digest as colon-separated byte pairs (32 groups of 2 hex
// characters), the usual fingerprint display convention.
func ComputeKeyFingerprint(publicKeyPEM string) string {
	digest := HashBytes([]byte(publicKeyPEM), SHA256)
	var b strings.Builder
	b.Grow(len(digest) + len(digest)/2)
	for i := 0; i < len(digest); i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(digest[i : i+2])
	}
	return b.String()
}

// NewKeyID returns a fresh key identifier, e.g. "release-2f9c41d8" for
// prefix "release". An empty prefix yields the bare random suffix.
func NewKeyID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
