package connect

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const dialTimeout = 10 * time.Second

type dialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// MongoConnector lazily dials MongoDB and memoizes the client for the life of
// the process. Concurrent callers during a dial wait on the same attempt; a
// failed attempt is not cached.
type MongoConnector struct {
	uri   string
	dial  dialFunc
	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
}

// NewMongoConnector builds a connector for uri. A "<password>" placeholder in
// the uri is replaced with password, matching Atlas connection strings.
func NewMongoConnector(uri, password string) *MongoConnector {
	if password != "" {
		uri = strings.Replace(uri, "<password>", password, 1)
	}
	return newMongoConnector(uri, dialMongo)
}

func newMongoConnector(uri string, dial dialFunc) *MongoConnector {
	return &MongoConnector{uri: uri, dial: dial}
}

// Connect returns the cached client, dialing on first use.
func (m *MongoConnector) Connect(ctx context.Context) (*mongo.Client, error) {
	if c := m.cached(); c != nil {
		return c, nil
	}
	if m.uri == "" {
		return nil, errs.Configuration("Please define the MONGODB_URI environment variable")
	}

	ch := m.group.DoChan("mongo", func() (interface{}, error) {
		if c := m.cached(); c != nil {
			return c, nil
		}
		// The dial outlives any single caller's context.
		dialCtx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()

		c, err := m.dial(dialCtx, m.uri)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.client = c
		m.mu.Unlock()
		return c, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, errs.Internal("failed to connect to MongoDB", res.Err)
		}
		return res.Val.(*mongo.Client), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ping verifies the cached (or freshly dialed) client is reachable.
func (m *MongoConnector) Ping(ctx context.Context) error {
	c, err := m.Connect(ctx)
	if err != nil {
		return err
	}
	if err := c.Ping(ctx, nil); err != nil {
		return errs.Internal("failed to ping MongoDB", err)
	}
	return nil
}

// Disconnect closes the cached client, if any, and forgets it.
func (m *MongoConnector) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

func (m *MongoConnector) cached() *mongo.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func CloudinaryCredentials(cloudName, apiKey, apiSecret string) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return cld, nil
}

// RedisConnect parses url, dials and pings the server.
func RedisConnect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}
