// Package cache keeps room photos in Redis behind a circuit breaker so a
// failing Redis degrades to database reads instead of failing requests.
package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const photoKey = "rooms:%s:photo"

// Options configures a PhotoCache.
type Options struct {
	Addr        string
	Password    string
	DB          int
	TTL         time.Duration
	DialTimeout time.Duration
}

// PhotoCache stores base64 encoded room photos. A nil *PhotoCache is valid
// and behaves as an always-missing cache.
type PhotoCache struct {
	cli     *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	log     logrus.FieldLogger
	tracer  trace.Tracer
}

// New builds a cache for opts.Addr. It does not contact Redis.
func New(opts Options, log logrus.FieldLogger) *PhotoCache {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 2 * time.Second
	}
	cli := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.DialTimeout,
		WriteTimeout: opts.DialTimeout,
		MaxRetries:   -1,
	})

	log = log.WithField("component", "photo-cache")
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis-photos",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
	})

	return &PhotoCache{
		cli:     cli,
		breaker: breaker,
		ttl:     opts.TTL,
		log:     log,
		tracer:  otel.Tracer("hotel-booking/cache"),
	}
}

// Ping checks connectivity.
func (c *PhotoCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.cli.Ping(ctx).Err()
}

// Get returns the cached photo for a room. Misses and Redis failures both
// report ok == false.
func (c *PhotoCache) Get(ctx context.Context, roomID string) (photo []byte, ok bool) {
	if c == nil {
		return nil, false
	}
	ctx, span := c.tracer.Start(ctx, "PhotoCache.Get")
	defer span.End()

	res, err := c.breaker.Execute(func() (any, error) {
		return c.cli.Get(ctx, fmt.Sprintf(photoKey, roomID)).Result()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			span.SetStatus(codes.Error, err.Error())
			c.log.WithError(err).WithField("room_id", roomID).Debug("photo cache read failed")
		}
		return nil, false
	}

	decoded, err := base64.StdEncoding.DecodeString(res.(string))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, false
	}
	return decoded, true
}

// Set caches a room photo for the configured TTL.
func (c *PhotoCache) Set(ctx context.Context, roomID string, photo []byte) {
	if c == nil || len(photo) == 0 {
		return
	}
	ctx, span := c.tracer.Start(ctx, "PhotoCache.Set")
	defer span.End()

	encoded := base64.StdEncoding.EncodeToString(photo)
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.cli.Set(ctx, fmt.Sprintf(photoKey, roomID), encoded, c.ttl).Err()
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.log.WithError(err).WithField("room_id", roomID).Debug("photo cache write failed")
	}
}

// Delete evicts a room photo.
func (c *PhotoCache) Delete(ctx context.Context, roomID string) {
	if c == nil {
		return
	}
	ctx, span := c.tracer.Start(ctx, "PhotoCache.Delete")
	defer span.End()

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.cli.Del(ctx, fmt.Sprintf(photoKey, roomID)).Err()
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.log.WithError(err).WithField("room_id", roomID).Debug("photo cache evict failed")
	}
}

// State reports the circuit breaker state.
func (c *PhotoCache) State() gobreaker.State {
	if c == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}

// Close releases the Redis client.
func (c *PhotoCache) Close() error {
	if c == nil {
		return nil
	}
	return c.cli.Close()
}
