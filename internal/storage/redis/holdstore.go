package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

const (
	holdKeyPrefix = "hold:"
	healthKey     = "holdstore:health"
	healthTTL     = time.Minute
)

// HoldStore keeps provisional holds in Redis as JSON values with a TTL.
// Expiry is Redis's native key expiry: an expired hold is indistinguishable
// from one that never existed.
type HoldStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

func New(addr string, opTimeout time.Duration) *HoldStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewWithClient(client, opTimeout)
}

// NewWithClient wraps an existing client; tests use it with a mock.
func NewWithClient(client *redis.Client, opTimeout time.Duration) *HoldStore {
	if opTimeout <= 0 {
		opTimeout = 3 * time.Second
	}
	return &HoldStore{client: client, opTimeout: opTimeout}
}

// Put stores the hold under its reservation id with the given TTL. The write
// is NX: an id that is already present fails with ErrHoldIDCollision rather
// than silently overwriting.
func (s *HoldStore) Put(ctx context.Context, hold domain.Hold, ttl time.Duration) error {
	const op = "storage.redis.Put"

	data, err := json.Marshal(hold)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	ok, err := s.client.SetNX(ctx, holdKey(hold.ReservationID), data, ttl).Result()
	if err != nil {
		return unavailable(op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrHoldIDCollision)
	}
	return nil
}

// Get returns the hold for the id, or ErrHoldNotFound once the entry has
// expired or been consumed.
func (s *HoldStore) Get(ctx context.Context, reservationID string) (domain.Hold, error) {
	const op = "storage.redis.Get"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, holdKey(reservationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Hold{}, fmt.Errorf("%s: %w", op, domain.ErrHoldNotFound)
		}
		return domain.Hold{}, unavailable(op, err)
	}

	var hold domain.Hold
	if err := json.Unmarshal(data, &hold); err != nil {
		return domain.Hold{}, fmt.Errorf("%s: %w", op, err)
	}
	return hold, nil
}

// Delete removes the hold early, before its TTL elapses.
func (s *HoldStore) Delete(ctx context.Context, reservationID string) error {
	const op = "storage.redis.Delete"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, holdKey(reservationID)).Err(); err != nil {
		return unavailable(op, err)
	}
	return nil
}

// Healthcheck writes and reads back a sentinel key. Liveness probing only.
func (s *HoldStore) Healthcheck(ctx context.Context) error {
	const op = "storage.redis.Healthcheck"

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, healthKey, "OK", healthTTL).Err(); err != nil {
		return unavailable(op, err)
	}
	got, err := s.client.Get(ctx, healthKey).Result()
	if err != nil {
		return unavailable(op, err)
	}
	if got != "OK" {
		return fmt.Errorf("%s: unexpected sentinel value %q: %w", op, got, domain.ErrHoldStoreUnavailable)
	}
	return nil
}

func (s *HoldStore) Stop() error {
	const op = "storage.redis.Stop"

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func holdKey(reservationID string) string {
	return holdKeyPrefix + reservationID
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrHoldStoreUnavailable)
}
