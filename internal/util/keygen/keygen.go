package keygen

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// DefaultBits is the RSA key size used by the CLI when generating a key.
const DefaultBits = 4096

// KeyPair holds an RSA key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the RSA private key in PEM-encoded PKCS#1 format.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// PublicKey is a parsed authorized_keys entry.
type PublicKey struct {
	// AuthorizedKey is the single-line key without trailing newline,
	// including the comment when the source file had one.
	AuthorizedKey string
	// Fingerprint is the SHA256 fingerprint, e.g. "SHA256:...".
	Fingerprint string
	Comment     string
	Type        string
}

// GenerateRSAKeyPair generates a new RSA key pair with the specified bit size.
func GenerateRSAKeyPair(bits int) (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA private key: %w", err)
	}

	if err := privateKey.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate RSA private key: %w", err)
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	publicRsaKey, err := ssh.NewPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}

	return &KeyPair{
		PrivateKey: privateKeyPEM,
		PublicKey:  ssh.MarshalAuthorizedKey(publicRsaKey),
	}, nil
}

// Write stores the key pair at privatePath (0600) and publicPath (0644),
// creating the parent directory with 0700 if needed. Existing files are
// never overwritten.
func (kp *KeyPair) Write(privatePath, publicPath string) error {
	for _, p := range []string{privatePath, publicPath} {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite existing key file %s", p)
		}
	}

	if err := os.MkdirAll(filepath.Dir(privatePath), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(privatePath, kp.PrivateKey, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(publicPath, kp.PublicKey, 0o644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}

// ParsePublicKey parses the first key of an authorized_keys formatted blob.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	key, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("invalid SSH public key: %w", err)
	}

	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))
	if comment != "" {
		line = line + " " + comment
	}

	return &PublicKey{
		AuthorizedKey: line,
		Fingerprint:   ssh.FingerprintSHA256(key),
		Comment:       comment,
		Type:          key.Type(),
	}, nil
}

// LoadPublicKey reads and parses the public key stored at path.
func LoadPublicKey(path string) (*PublicKey, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	key, err := ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}

// PublicKeyPath returns the conventional public key path for a private key path.
func PublicKeyPath(privatePath string) string {
	return privatePath + ".pub"
}
