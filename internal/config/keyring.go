package config

import (
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name under which secrets are namespaced
	// in the OS keychain.
	KeyringService = "archgraph"

	// KeyringPersistencePasswordItem is the keychain item holding the
	// persistence store's connection password (SPEC_FULL.md §4.D).
	KeyringPersistencePasswordItem = "persistence-dsn-password"
)

// KeyringManager handles secure credential storage in the OS keychain,
// grounded on the teacher's internal/config/keyring.go (zalando/go-keyring),
// narrowed to the single secret the core config needs: the persistence DSN
// password.
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager.
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{logger: slog.Default().With("component", "keyring")}
}

// SetPersistencePassword stores the persistence DSN password in the OS
// keychain:
//   - macOS: Keychain Access.app → "archgraph" → "persistence-dsn-password"
//   - Windows: Credential Manager → "archgraph"
//   - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SetPersistencePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringPersistencePasswordItem, password); err != nil {
		km.logger.Error("failed to save persistence password to keychain", "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}
	km.logger.Info("persistence password saved to keychain")
	return nil
}

// GetPersistencePassword retrieves the persistence DSN password from the
// OS keychain. A not-found result is not an error — it simply means no
// password has been stored there yet.
func (km *KeyringManager) GetPersistencePassword() (string, error) {
	password, err := keyring.Get(KeyringService, KeyringPersistencePasswordItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		km.logger.Error("failed to get persistence password from keychain", "error", err)
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}
	return password, nil
}

// DeletePersistencePassword removes the stored password from the keychain.
func (km *KeyringManager) DeletePersistencePassword() error {
	err := keyring.Delete(KeyringService, KeyringPersistencePasswordItem)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		km.logger.Error("failed to delete persistence password from keychain", "error", err)
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}
	km.logger.Info("persistence password deleted from keychain")
	return nil
}

// IsAvailable checks whether the OS keychain is reachable. Returns false on
// headless systems (CI) where no Secret Service / Keychain / Credential
// Manager backend is present.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "availability-probe")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.Debug("keychain not available", "error", err)
		return false
	}
	return true
}
