package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"golang.org/x/term"
)

// CredentialManager resolves the persistence DSN password using the
// priority chain grounded on the teacher's internal/config/credentials.go:
// environment variable > OS keychain > interactive prompt. Unlike the
// teacher (which resolves an OpenAI key and a GitHub token) this manager
// resolves exactly one secret: the storage connection password (A4).
type CredentialManager struct {
	mode    DeploymentMode
	keyring *KeyringManager
}

// NewCredentialManager creates a new credential manager.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		mode:    DetectMode(),
		keyring: NewKeyringManager(),
	}
}

// GetStoragePassword retrieves the persistence password using the priority
// chain: env var, then OS keychain, then (packaged mode only, interactive
// terminal only) a prompt.
func (cm *CredentialManager) GetStoragePassword() (string, error) {
	if password := os.Getenv("ARCHGRAPH_POSTGRES_PASSWORD"); password != "" {
		return password, nil
	}

	if cm.keyring.IsAvailable() {
		if password, err := cm.keyring.GetPersistencePassword(); err == nil && password != "" {
			return password, nil
		}
	}

	if cm.mode.AllowsInteractivePrompts() && isInteractive() {
		fmt.Print("Enter persistence store password: ")
		password, err := readSecurely()
		if err != nil {
			return "", err
		}
		if password != "" && cm.keyring.IsAvailable() {
			_ = cm.keyring.SetPersistencePassword(password)
		}
		return password, nil
	}

	return "", apperrors.ConfigError(
		"no persistence password found: set ARCHGRAPH_POSTGRES_PASSWORD, " +
			"store one in the OS keychain, or embed it in storage.postgres_dsn")
}

// readSecurely reads a password/token from stdin without echoing it.
func readSecurely() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive returns true if stdin is a terminal (not piped).
func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}
