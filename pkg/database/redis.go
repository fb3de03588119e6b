// Package database provides the client factories for the data stores the
// application reads its endpoints for from the assembled configuration:
// Redis for sessions and the job queue, MongoDB for the primary store.
package database

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

// RedisConfig holds the connection settings for the Redis instance backing
// sessions and the job queue.
type RedisConfig struct {
	Address     string        `yaml:"address"`
	Username    string        `yaml:"username,omitempty"`
	Password    string        `yaml:"password,omitempty"`
	Database    int           `yaml:"database,omitempty"`
	MaxIdle     int           `yaml:"max_idle"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate checks the RedisConfig for usable values.
func (r RedisConfig) Validate() error {
	if r.Address == "" {
		return errors.New("redis address must be set and non-empty")
	}
	if r.Database < 0 {
		return errors.New("redis database must be non-negative")
	}
	if r.MaxIdle < 0 {
		return errors.New("redis max_idle must be non-negative")
	}
	if r.IdleTimeout < 0 {
		return errors.New("redis idle_timeout must be non-negative")
	}
	return nil
}

// CreateClient creates a Redis connection pool from this config. The pool
// dials lazily, so creation itself never touches the network.
func (r *RedisConfig) CreateClient() (*redis.Pool, error) {
	if err := r.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid Redis configuration")
	}

	cfg := *r
	return &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		IdleTimeout: cfg.IdleTimeout,
		Dial: func() (redis.Conn, error) {
			var opts []redis.DialOption
			if cfg.Username != "" {
				opts = append(opts, redis.DialUsername(cfg.Username))
			}
			if cfg.Password != "" {
				opts = append(opts, redis.DialPassword(cfg.Password))
			}
			opts = append(opts, redis.DialDatabase(cfg.Database))
			return redis.Dial("tcp", cfg.Address, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}, nil
}
