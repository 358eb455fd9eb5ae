package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// SigningKey is the Ed25519 key pair used for DKIM signatures.
type SigningKey struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

// GenerateSigningKey creates a fresh Ed25519 key pair.
func GenerateSigningKey() (*SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("ed25519 key generation: %w", err)
	}
	return &SigningKey{PrivateKey: priv, PublicKey: pub}, nil
}

// LoadSigningKey reads a PKCS#8 "PRIVATE KEY" PEM file holding an Ed25519 key.
func LoadSigningKey(path string) (*SigningKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSigningKey(data)
}

// ParseSigningKey decodes a PKCS#8 PEM Ed25519 private key.
func ParseSigningKey(pemData []byte) (*SigningKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, errors.New("invalid PEM format or missing private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("not an Ed25519 private key")
	}
	return &SigningKey{PrivateKey: priv, PublicKey: priv.Public().(ed25519.PublicKey)}, nil
}

// DKIMRecord is the TXT record value publishing the public half.
func (k *SigningKey) DKIMRecord() string {
	return "v=DKIM1; k=ed25519; p=" + base64.StdEncoding.EncodeToString(k.PublicKey)
}
