package trust

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SignatureAlgorithm identifies the key encoding and verification routine a
// key and its signatures use. The set is closed: signer and verifier
// dispatch over it with an exhaustive switch.
type SignatureAlgorithm int

const (
	// Ed25519 signs the message bytes directly with Ed25519.
	Ed25519 SignatureAlgorithm = iota
	// ECDSAP256 is ECDSA over NIST P-256 with SHA-256; signatures are
	// ASN.1 DER encoded.
	ECDSAP256
	// RSAPSS4096 is 4096-bit RSA. The wire name predates the padding
	// choice: deployed signatures use PKCS#1 v1.5 over SHA-256, not PSS,
	// and the scheme must stay v1.5 to keep previously issued signatures
	// verifiable.
	RSAPSS4096
)

// String returns the wire name of the algorithm.
func (a SignatureAlgorithm) String() string {
	switch a {
	case Ed25519:
		return "ed25519"
	case ECDSAP256:
		return "ecdsa-p256"
	case RSAPSS4096:
		return "rsa-pss-4096"
	default:
		return fmt.Sprintf("SignatureAlgorithm(%d)", int(a))
	}
}

// ParseSignatureAlgorithm parses a signature algorithm wire name.
func ParseSignatureAlgorithm(s string) (SignatureAlgorithm, error) {
	switch strings.ToLower(s) {
	case "ed25519":
		return Ed25519, nil
	case "ecdsa-p256":
		return ECDSAP256, nil
	case "rsa-pss-4096":
		return RSAPSS4096, nil
	default:
		return 0, fmt.Errorf("%w: unknown signature algorithm %q", ErrUnsupportedAlgorithm, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a SignatureAlgorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *SignatureAlgorithm) UnmarshalText(text []byte) error {
	alg, err := ParseSignatureAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a SignatureAlgorithm) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *SignatureAlgorithm) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

// ContentKind says which digests a signature covers.
type ContentKind int

const (
	// ContentManifest binds the signature to a package manifest digest.
	ContentManifest ContentKind = iota
	// ContentPackage binds the signature to a package archive digest.
	ContentPackage
	// ContentBoth carries both digests. The manifest digest is the one
	// cryptographically signed; the package digest travels alongside for a
	// separate hash check.
	ContentBoth
)

// String returns the wire name of the content kind.
func (k ContentKind) String() string {
	switch k {
	case ContentManifest:
		return "manifest"
	case ContentPackage:
		return "package"
	case ContentBoth:
		return "both"
	default:
		return fmt.Sprintf("ContentKind(%d)", int(k))
	}
}

// ParseContentKind parses a content kind wire name.
func ParseContentKind(s string) (ContentKind, error) {
	switch strings.ToLower(s) {
	case "manifest":
		return ContentManifest, nil
	case "package":
		return ContentPackage, nil
	case "both":
		return ContentBoth, nil
	default:
		return 0, fmt.Errorf("unknown content kind: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ContentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ContentKind) UnmarshalText(text []byte) error {
	kind, err := ParseContentKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k ContentKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *ContentKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// SignedContent describes exactly which digest(s) a signature covers.
// Binding the signature to a digest, rather than to raw bytes, makes
// verification "recompute the digest of the bytes you have and compare it
// to the digest the signature actually covers".
type SignedContent struct {
	Kind         ContentKind   `yaml:"kind" json:"kind"`
	ManifestHash string        `yaml:"manifest_hash,omitempty" json:"manifest_hash,omitempty"`
	PackageHash  string        `yaml:"package_hash,omitempty" json:"package_hash,omitempty"`
	Algorithm    HashAlgorithm `yaml:"algorithm" json:"algorithm"`
}

// ManifestContent returns a SignedContent covering a manifest digest.
func ManifestContent(hash string, algorithm HashAlgorithm) SignedContent {
	return SignedContent{Kind: ContentManifest, ManifestHash: hash, Algorithm: algorithm}
}

// PackageContent returns a SignedContent covering a package archive digest.
func PackageContent(hash string, algorithm HashAlgorithm) SignedContent {
	return SignedContent{Kind: ContentPackage, PackageHash: hash, Algorithm: algorithm}
}

// BothContent returns a SignedContent covering both digests.
func BothContent(manifestHash, packageHash string, algorithm HashAlgorithm) SignedContent {
	return SignedContent{
		Kind:         ContentBoth,
		ManifestHash: manifestHash,
		PackageHash:  packageHash,
		Algorithm:    algorithm,
	}
}

// signedHash returns the digest the signature cryptographically covers:
// the package hash for ContentPackage, the manifest hash otherwise.
func (c SignedContent) signedHash() string {
	if c.Kind == ContentPackage {
		return c.PackageHash
	}
	return c.ManifestHash
}

// Signature is an immutable, transferable record of a signing operation.
// It is created once by a PackageSigner and may be verified any number of
// times against a KeyStore holding the matching public key.
type Signature struct {
	// KeyID names the trusted key that produced this signature.
	KeyID string `yaml:"key_id" json:"key_id"`
	// Algorithm is the signature algorithm; it must match the key's.
	Algorithm SignatureAlgorithm `yaml:"algorithm" json:"algorithm"`
	// Signature holds the raw signature bytes, base64 (standard alphabet).
	Signature string `yaml:"signature" json:"signature"`
	// SignedContent records which digest(s) the signature covers.
	SignedContent SignedContent `yaml:"signed_content" json:"signed_content"`
	// Timestamp is when the signature was created (RFC 3339). Advisory
	// only; it is not verified against anything.
	Timestamp string `yaml:"timestamp" json:"timestamp"`
}
