package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitcoach/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Kind names a secret habitcoach stores in the OS keyring.
type Kind string

const (
	KindDatabase Kind = "db"
	KindAI       Kind = "ai"
	KindTelegram Kind = "telegram"
)

// Kinds lists every supported secret kind.
var Kinds = []Kind{KindDatabase, KindAI, KindTelegram}

// ParseKind validates a kind given on the command line.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown secret kind %q (expected db, ai or telegram)", s)
}

// Account returns the keyring account name the secret is stored under.
func (k Kind) Account() string {
	switch k {
	case KindAI:
		return constants.KeyringUserAI
	case KindTelegram:
		return constants.KeyringUserTelegram
	default:
		return constants.KeyringUserDatabase
	}
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored for kind.
func Get(kind Kind) (string, error) {
	secret, err := keyring.Get(constants.AppName, kind.Account())
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		// Wrap other keyring errors as unavailable
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret in the OS keyring.
func Set(kind Kind, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s secret cannot be empty", kind)
	}
	if err := keyring.Set(constants.AppName, kind.Account(), secret); err != nil {
		return fmt.Errorf("failed to store %s secret in keyring: %w", kind, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(kind Kind) error {
	err := keyring.Delete(constants.AppName, kind.Account())
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s secret from keyring: %w", kind, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
func GetConnectionString() (string, error) {
	return Get(KindDatabase)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return Set(KindDatabase, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Delete(KindDatabase)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	// ErrNotFound means the keyring answered, it just had nothing stored
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
