package credstore

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// Keyring stores secrets in the platform keychain (Secret Service on
// Linux, Keychain on macOS, Credential Manager on Windows).
type Keyring struct{}

// Get retrieves a secret from the keychain.
func (Keyring) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return secret, nil
}

// Set writes a secret to the keychain.
func (Keyring) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

// available probes the keychain with a read; ErrNotFound means the
// backend responded and is usable.
func (k Keyring) available() bool {
	_, err := keyring.Get("native-hub-probe", "probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
