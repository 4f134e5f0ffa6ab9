package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shopledger:idempotency:sale:"

// ErrKeyReused means the key was first claimed for a request with a
// different fingerprint.
var ErrKeyReused = errors.New("idempotency key reused with a different request")

// Store remembers which sale an Idempotency-Key produced, together with a
// fingerprint of the request that claimed it. A nil *Store disables
// de-duplication: every claim succeeds.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if client == nil {
		return nil
	}
	return &Store{client: client, ttl: ttl}
}

// Fingerprint hashes the JSON encoding of a normalized request.
func Fingerprint(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding request fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Claim reserves key for a new commit. When the key is already taken, claimed
// is false and saleID holds the committed sale, or is empty while the first
// request is still running. A taken key with another fingerprint returns
// ErrKeyReused.
func (s *Store) Claim(ctx context.Context, key, fingerprint string) (saleID string, claimed bool, err error) {
	if s == nil || key == "" {
		return "", true, nil
	}

	pending := encodeEntry(fingerprint, "")
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("claiming idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		ok, err = s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("claiming idempotency key: %w", err)
		}
		return "", ok, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading idempotency key: %w", err)
	}

	storedFingerprint, storedSaleID := decodeEntry(val)
	if storedFingerprint != fingerprint {
		return "", false, ErrKeyReused
	}
	return storedSaleID, false, nil
}

// Complete binds key to the committed sale for the rest of the TTL.
func (s *Store) Complete(ctx context.Context, key, fingerprint, saleID string) error {
	if s == nil || key == "" {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+key, encodeEntry(fingerprint, saleID), s.ttl).Err(); err != nil {
		return fmt.Errorf("completing idempotency key: %w", err)
	}
	return nil
}

// Release frees key after a failed commit so the client can retry.
func (s *Store) Release(ctx context.Context, key string) error {
	if s == nil || key == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}

// Entries are stored as "<fingerprint>|<saleID>"; the sale id is empty while
// the commit is in flight.
func encodeEntry(fingerprint, saleID string) string {
	return fingerprint + "|" + saleID
}

func decodeEntry(val string) (fingerprint, saleID string) {
	fingerprint, saleID, _ = strings.Cut(val, "|")
	return fingerprint, saleID
}
