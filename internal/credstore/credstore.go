// Package credstore abstracts secret persistence behind a small get/set
// interface keyed by (service, account). The default adapter uses the OS
// keychain; a JSON file under the user config dir is the fallback for
// headless environments without a keychain.
package credstore

import "errors"

// ErrNotFound is returned when no secret exists for the given key.
var ErrNotFound = errors.New("credential not found")

// Store is an opaque secret store.
type Store interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
}

// Open returns the keychain-backed store when the platform keychain is
// reachable, otherwise the file-backed store.
func Open() Store {
	ks := Keyring{}
	if ks.available() {
		return ks
	}
	fs, err := NewFileStore()
	if err != nil {
		// Last resort: a store that always misses. Login still works,
		// the token just is not persisted across sessions.
		return discard{}
	}
	return fs
}

type discard struct{}

func (discard) Get(string, string) (string, error) { return "", ErrNotFound }
func (discard) Set(string, string, string) error   { return nil }
