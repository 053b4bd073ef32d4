package credential

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "todoapp"

// SessionSecretKey is the keyring item holding the cookie signing secret.
const SessionSecretKey = "session-secret"

const secretBytes = 32

// Open returns the system keyring for the todo app.
func Open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/todoapp/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("todoapp-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SessionSecret returns the stored session secret, generating and saving
// a new one the first time it is asked for.
func SessionSecret(ring keyring.Keyring) ([]byte, error) {
	item, err := ring.Get(SessionSecretKey)
	if err == nil && len(item.Data) > 0 {
		return item.Data, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("getting credential %q: %w", SessionSecretKey, err)
	}
	return RotateSessionSecret(ring)
}

// RotateSessionSecret replaces the session secret. Every existing session
// cookie stops verifying.
func RotateSessionSecret(ring keyring.Keyring) ([]byte, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating secret: %w", err)
	}
	secret := []byte(hex.EncodeToString(raw))

	err := ring.Set(keyring.Item{
		Key:   SessionSecretKey,
		Data:  secret,
		Label: "todoapp session secret",
	})
	if err != nil {
		return nil, fmt.Errorf("setting credential %q: %w", SessionSecretKey, err)
	}
	return secret, nil
}
