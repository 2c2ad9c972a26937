// Package secrets keeps LLM API keys out of the plain-text config file.
// Keys live in a per-user file (0600) under AES-GCM with a key derived
// from the local user identity. Not a replacement for an OS keychain, but
// an accidental `cat config.toml` reveals nothing.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const keysFile = "keys.json"

var ErrNotFound = errors.New("key not found")

// Store reads and writes provider keys below dir.
type Store struct {
	dir string
}

// Open places the store in the user config directory.
func Open() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(filepath.Join(dir, "kostentracker")), nil
}

// OpenAt places the store in an explicit directory. Tests use this.
func OpenAt(dir string) *Store { return &Store{dir: dir} }

// Set stores or replaces the key for a provider.
func (s *Store) Set(provider, key string) error {
	provider, err := normProvider(provider)
	if err != nil {
		return err
	}
	keys, err := s.read()
	if err != nil {
		return err
	}
	ct, err := seal([]byte(key))
	if err != nil {
		return err
	}
	keys[provider] = base64.StdEncoding.EncodeToString(ct)
	return s.write(keys)
}

// Get returns the key for a provider, ErrNotFound when none is stored.
func (s *Store) Get(provider string) (string, error) {
	provider, err := normProvider(provider)
	if err != nil {
		return "", err
	}
	keys, err := s.read()
	if err != nil {
		return "", err
	}
	enc, ok := keys[provider]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	plain, err := open(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Delete removes a provider's key. Deleting an absent key is a no-op.
func (s *Store) Delete(provider string) error {
	provider, err := normProvider(provider)
	if err != nil {
		return err
	}
	keys, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := keys[provider]; !ok {
		return nil
	}
	delete(keys, provider)
	return s.write(keys)
}

func normProvider(p string) (string, error) {
	p = strings.TrimSpace(strings.ToLower(p))
	if p == "" {
		return "", fmt.Errorf("provider required")
	}
	return p, nil
}

func (s *Store) path() string { return filepath.Join(s.dir, keysFile) }

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var f struct {
		Keys map[string]string `json:"keys"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Keys == nil {
		f.Keys = map[string]string{}
	}
	return f.Keys, nil
}

func (s *Store) write(keys map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(struct {
		Keys map[string]string `json:"keys"`
	}{keys}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

// masterKey is derived, not stored: losing the file loses the keys, which
// is acceptable for re-enterable API keys.
func masterKey() []byte {
	base := fmt.Sprintf("kostentracker-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	return gcm.Open(nil, ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():], nil)
}
