package trust

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// decodePEM extracts the DER bytes of the first PEM block in pemText.
func decodePEM(pemText string) ([]byte, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyEncoding)
	}
	return block.Bytes, nil
}

func parseEd25519PublicKey(pemText string) (ed25519.PublicKey, error) {
	der, err := decodePEM(pemText)
	if err != nil {
		return nil, err
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Ed25519 public key: %v", ErrKeyEncoding, err)
	}
	key, ok := pub.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an Ed25519 public key", ErrKeyEncoding)
	}
	return key, nil
}

func parseECDSAP256PublicKey(pemText string) (*ecdsa.PublicKey, error) {
	der, err := decodePEM(pemText)
	if err != nil {
		return nil, err
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid P-256 public key: %v", ErrKeyEncoding, err)
	}
	key, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA public key", ErrKeyEncoding)
	}
	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: ECDSA key uses curve %s, want P-256", ErrKeyEncoding, key.Curve.Params().Name)
	}
	return key, nil
}

func parseRSAPublicKey(pemText string) (*rsa.PublicKey, error) {
	der, err := decodePEM(pemText)
	if err != nil {
		return nil, err
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid RSA public key: %v", ErrKeyEncoding, err)
	}
	key, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", ErrKeyEncoding)
	}
	return key, nil
}

func parseEd25519PrivateKey(pemText string) (ed25519.PrivateKey, error) {
	der, err := decodePEM(pemText)
	if err != nil {
		return nil, err
	}
	priv, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Ed25519 private key: %v", ErrKeyEncoding, err)
	}
	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an Ed25519 private key", ErrKeyEncoding)
	}
	return key, nil
}

func parseECDSAP256PrivateKey(pemText string) (*ecdsa.PrivateKey, error) {
	der, err := decodePEM(pemText)
	if err != nil {
		return nil, err
	}
	priv, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid P-256 private key: %v", ErrKeyEncoding, err)
	}
	key, ok := priv.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA private key", ErrKeyEncoding)
	}
	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: ECDSA key uses curve %s, want P-256", ErrKeyEncoding, key.Curve.Params().Name)
	}
	return key, nil
}

func parseRSAPrivateKey(pemText string) (*rsa.PrivateKey, error) {
	der, err := decodePEM(pemText)
	if err != nil {
		return nil, err
	}
	priv, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid RSA private key: %v", ErrKeyEncoding, err)
	}
	key, ok := priv.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", ErrKeyEncoding)
	}
	return key, nil
}
