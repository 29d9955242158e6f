// Package tokenstore persists the Readwise API token encrypted at rest
// with AES-256-GCM. The token is opaque to the rest of the system: it is
// only ever handed to the Readwise client as a bearer value.
package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/quotescroll/quotescroll/internal/crypto"
	"github.com/quotescroll/quotescroll/internal/entities"
)

const (
	// EnvEncryptionKey is the environment variable for the encryption key
	EnvEncryptionKey = "TOKEN_ENCRYPTION_KEY"

	// DefaultKeyFileName is the default name for the generated key file
	DefaultKeyFileName = ".quotescroll-token-key"
)

// TokenStore provides encrypted get/set/clear for the API token.
type TokenStore struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
}

// Config holds configuration for the token store.
type Config struct {
	// EncryptionKey is the base64-encoded 32-byte key. If empty, the
	// environment variable is tried, then a key file (generated on
	// first use).
	EncryptionKey string

	// KeyFilePath overrides the default ~/.quotescroll-token-key location.
	KeyFilePath string
}

// New creates a TokenStore on an already-open database connection.
func New(db *gorm.DB, cfg Config) (*TokenStore, error) {
	key, err := resolveEncryptionKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve encryption key: %w", err)
	}

	encryptor, err := crypto.NewEncryptorFromBase64(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	if err := db.AutoMigrate(&entities.APIToken{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &TokenStore{db: db, encryptor: encryptor}, nil
}

// resolveEncryptionKey determines the key: explicit config, then the
// environment, then a key file (created with a fresh key if missing).
func resolveEncryptionKey(cfg Config) (string, error) {
	if cfg.EncryptionKey != "" {
		return cfg.EncryptionKey, nil
	}

	if envKey := os.Getenv(EnvEncryptionKey); envKey != "" {
		return envKey, nil
	}

	keyFilePath := cfg.KeyFilePath
	if keyFilePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		keyFilePath = filepath.Join(homeDir, DefaultKeyFileName)
	}

	if data, err := os.ReadFile(keyFilePath); err == nil {
		return string(data), nil
	}

	newKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if err := os.WriteFile(keyFilePath, []byte(newKey), 0600); err != nil {
		return "", fmt.Errorf("failed to save encryption key to %s: %w", keyFilePath, err)
	}

	return newKey, nil
}

// Set stores the token, replacing any previous one.
func (s *TokenStore) Set(token string) error {
	encrypted, err := s.encryptor.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	var existing entities.APIToken
	result := s.db.First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		return s.db.Create(&entities.APIToken{Token: encrypted}).Error
	}
	if result.Error != nil {
		return fmt.Errorf("failed to load token record: %w", result.Error)
	}

	existing.Token = encrypted
	return s.db.Save(&existing).Error
}

// Get returns the decrypted token, or "" when none is stored.
func (s *TokenStore) Get() (string, error) {
	var stored entities.APIToken
	result := s.db.First(&stored)
	if result.Error == gorm.ErrRecordNotFound {
		return "", nil
	}
	if result.Error != nil {
		return "", fmt.Errorf("failed to load token record: %w", result.Error)
	}

	token, err := s.encryptor.Decrypt(stored.Token)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return token, nil
}

// Clear removes the stored token.
func (s *TokenStore) Clear() error {
	return s.db.Where("1 = 1").Delete(&entities.APIToken{}).Error
}
