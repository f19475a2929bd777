package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request is booking the same vet slot
var ErrSlotLocked = errors.New("appointment slot is being booked")

const (
	RedisSlotLockKeyPrefix = "appointment:slot:"

	// slotLockTTL bounds how long a crashed request can hold a slot
	slotLockTTL = 10 * time.Second

	slotLockTimeout = 2 * time.Second
)

// releaseSlotScript deletes the lock only while it still holds our token, so a
// request whose lock expired cannot release a newer holder's lock.
// go-redis switches to EVALSHA after the first call.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotLocker serializes concurrent bookings of the same (veterinarian, time) slot.
// The unique slot index in PostgreSQL stays the source of truth; the lock turns a
// racing insert into an early conflict instead of a failed commit.
type SlotLocker interface {
	Acquire(ctx context.Context, vetID uuid.UUID, at time.Time) (release func(), err error)
}

type redisSlotLocker struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSlotLocker(client *redis.Client, log *logrus.Logger) SlotLocker {
	return &redisSlotLocker{client: client, log: log}
}

// Acquire takes the slot lock. Redis failures are logged and the booking proceeds
// unlocked.
func (l *redisSlotLocker) Acquire(ctx context.Context, vetID uuid.UUID, at time.Time) (func(), error) {
	key := SlotLockKey(vetID, at)
	token := uuid.NewString()

	lockCtx, cancel := context.WithTimeout(ctx, slotLockTimeout)
	defer cancel()

	ok, err := l.client.SetNX(lockCtx, key, token, slotLockTTL).Result()
	if err != nil {
		l.log.Warnf("Failed to acquire slot lock %s: %+v", key, err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrSlotLocked
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), slotLockTimeout)
		defer cancel()
		if err := releaseSlotScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warnf("Failed to release slot lock %s: %+v", key, err)
		}
	}, nil
}

// SlotLockKey is keyed on the start instant at the microsecond precision PostgreSQL
// stores, so the lock and the unique slot index agree on what a slot is.
func SlotLockKey(vetID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s%s:%d", RedisSlotLockKeyPrefix, vetID, at.UTC().Truncate(time.Microsecond).UnixMicro())
}

type noopSlotLocker struct{}

// NewNoopSlotLocker leaves slot protection to the database.
func NewNoopSlotLocker() SlotLocker {
	return noopSlotLocker{}
}

func (noopSlotLocker) Acquire(ctx context.Context, vetID uuid.UUID, at time.Time) (func(), error) {
	return func() {}, nil
}
