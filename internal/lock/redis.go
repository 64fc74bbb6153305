package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned by WithLock when another holder owns the key.
var ErrBusy = errors.New("lock is held by another request")

// Locker hands out a token per acquisition. Unlock only releases the key
// while it still holds that token, so a holder whose lock expired and was
// taken over cannot release the new holder's lock.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// RedisLock is a SETNX lock.
type RedisLock struct {
	client *redis.Client
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Connect opens a client and checks it with a ping.
func Connect(addr, password string, db int) (*redis.Client, error) {
	const op = "lock.Connect"

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (r *RedisLock) Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	const op = "lock.RedisLock.Lock"

	token := uuid.NewString()
	result, err := r.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !result {
		return "", false, nil
	}

	return token, true, nil
}

func (r *RedisLock) Unlock(ctx context.Context, key, token string) error {
	const op = "lock.RedisLock.Unlock"

	if err := unlockScript.Run(ctx, r.client, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisLock) Close() error {
	return r.client.Close()
}

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

// WithLock runs fn while holding key. Release uses a context detached from ctx
// so a cancelled request still frees the key.
func WithLock(ctx context.Context, l Locker, key string, ttl time.Duration, fn func() error) error {
	token, ok, err := l.Lock(ctx, key, ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBusy
	}
	defer func() {
		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = l.Unlock(uctx, key, token)
	}()

	return fn()
}

// ToursKey guards the accepted-tour set of one guide on one day.
func ToursKey(guideID, date string) string {
	return "tours:" + guideID + ":" + date
}

// TourKey guards the participant list of one tour.
func TourKey(tourID string) string {
	return "tour:" + tourID
}
