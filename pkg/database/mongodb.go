package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoConnectTimeout = 10 * time.Second

// MongoDBConfig holds the connection settings for the primary document
// store.
type MongoDBConfig struct {
	// URI is the MongoDB connection string, for example
	// "mongodb://localhost:27017/tramuntana".
	URI string `yaml:"uri"`

	// Database is the database name the application uses.
	Database string `yaml:"database"`

	// ConnectTimeout caps the initial connection handshake. Defaults to
	// 10s when zero.
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`

	// MaxPoolSize caps the driver's connection pool. Zero keeps the
	// driver default.
	MaxPoolSize uint64 `yaml:"max_pool_size,omitempty"`
}

// Validate checks the MongoDBConfig for usable values.
func (m MongoDBConfig) Validate() error {
	if m.URI == "" {
		return errors.New("mongodb uri must be set and non-empty")
	}
	if m.Database == "" {
		return errors.New("mongodb database must be set and non-empty")
	}
	if m.ConnectTimeout < 0 {
		return errors.New("mongodb connect_timeout must be non-negative")
	}
	return nil
}

// CreateClient connects a MongoDB client using this config. The caller owns
// the client and must Disconnect it on shutdown.
func (m *MongoDBConfig) CreateClient(ctx context.Context) (*mongo.Client, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid MongoDB configuration")
	}

	timeout := m.ConnectTimeout
	if timeout == 0 {
		timeout = defaultMongoConnectTimeout
	}

	opts := options.Client().
		ApplyURI(m.URI).
		SetConnectTimeout(timeout)
	if m.MaxPoolSize > 0 {
		opts = opts.SetMaxPoolSize(m.MaxPoolSize)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to MongoDB at %q", m.URI)
	}

	return client, nil
}
