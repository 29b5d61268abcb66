package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/storage"
	"github.com/mr-tron/base58"
)

const (
	keyStorePrefix = "near-api-js:keystore:"
	keyTypeEd25519 = "ed25519"

	// PendingAccessKeyPrefix marks keys generated for a sign-in that has not completed yet
	PendingAccessKeyPrefix = "pending_key"
)

// KeyPair is an ed25519 access key
type KeyPair struct {
	secret ed25519.PrivateKey
}

// GenerateKeyPair creates a fresh random ed25519 key pair
func GenerateKeyPair() (*KeyPair, error) {
	_, secret, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return &KeyPair{secret: secret}, nil
}

// ParseKeyPair decodes the "ed25519:<base58 secret>" form
func ParseKeyPair(encoded string) (*KeyPair, error) {
	keyType, data, ok := strings.Cut(encoded, ":")
	if !ok || keyType != keyTypeEd25519 {
		return nil, fmt.Errorf("unsupported key encoding %q", keyType)
	}
	raw, err := base58.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 secret key length %d", len(raw))
	}
	return &KeyPair{secret: ed25519.PrivateKey(raw)}, nil
}

// PublicKey returns the "ed25519:<base58>" public key
func (k *KeyPair) PublicKey() string {
	return keyTypeEd25519 + ":" + base58.Encode(k.secret.Public().(ed25519.PublicKey))
}

// String returns the "ed25519:<base58>" secret key
func (k *KeyPair) String() string {
	return keyTypeEd25519 + ":" + base58.Encode(k.secret)
}

// Sign signs message with the secret key
func (k *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(k.secret, message)
}

// Verify checks a signature made by Sign
func (k *KeyPair) Verify(message, signature []byte) bool {
	return ed25519.Verify(k.secret.Public().(ed25519.PublicKey), message, signature)
}

// KeyStore keeps access keys in the key-value storage
type KeyStore struct {
	storage *storage.Adapter
}

// NewKeyStore creates a key store over st
func NewKeyStore(st *storage.Adapter) *KeyStore {
	return &KeyStore{storage: st}
}

func storageKeyFor(networkID, accountID string) string {
	return keyStorePrefix + accountID + ":" + networkID
}

// SetKey stores keyPair for accountID on networkID
func (ks *KeyStore) SetKey(ctx context.Context, networkID, accountID string, keyPair *KeyPair) error {
	return ks.storage.Set(ctx, storageKeyFor(networkID, accountID), keyPair.String())
}

// GetKey returns core.ErrKeyPairNotFound when no key is stored
func (ks *KeyStore) GetKey(ctx context.Context, networkID, accountID string) (*KeyPair, error) {
	raw, ok, err := ks.storage.Raw(ctx, storageKeyFor(networkID, accountID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", core.ErrKeyPairNotFound, accountID, networkID)
	}
	return ParseKeyPair(raw)
}

// RemoveKey deletes the key for accountID on networkID
func (ks *KeyStore) RemoveKey(ctx context.Context, networkID, accountID string) error {
	return ks.storage.Delete(ctx, storageKeyFor(networkID, accountID))
}

// HasKey reports whether a key is stored for accountID on networkID
func (ks *KeyStore) HasKey(ctx context.Context, networkID, accountID string) (bool, error) {
	_, err := ks.GetKey(ctx, networkID, accountID)
	if errors.Is(err, core.ErrKeyPairNotFound) {
		return false, nil
	}
	return err == nil, err
}
