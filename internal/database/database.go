// Package database opens the optional back-end connections. Every
// connector returns an error instead of exiting so the caller decides what
// is fatal.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"groundnut_back_end/internal/config"
)

// Connections holds the clients that were configured. Unconfigured ones are nil.
type Connections struct {
	Scylla  *gocql.Session
	Redis   *redis.Client
	Mongo   *mongo.Client
	MongoDB *mongo.Database
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// Connect opens every connection the configuration asks for. Stores that
// were selected explicitly (Scylla, Mongo) and Redis for rate limiting are
// required; search and export degrade to disabled when unreachable.
func Connect(ctx context.Context, cfg *config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	c := &Connections{}
	var err error

	if cfg.OrderStore == "scylla" {
		if c.Scylla, err = NewScyllaSession(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.ContactStore == "mongo" {
		if c.Mongo, err = NewMongo(ctx, cfg.MongoURI); err != nil {
			c.Close(context.Background())
			return nil, err
		}
		c.MongoDB = c.Mongo.Database(cfg.MongoDatabase)
	}

	if cfg.RedisHost != "" {
		if c.Redis, err = NewRedis(ctx, cfg.RedisHost, cfg.RedisPassword); err != nil {
			if cfg.RateLimitEnabled {
				c.Close(context.Background())
				return nil, err
			}
			log.Warn().Err(err).Msg("⚠️ Redis unavailable, server carts disabled")
			c.Redis = nil
		}
	}

	if cfg.ElasticURL != "" {
		if c.Elastic, err = NewElastic(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword); err != nil {
			log.Warn().Err(err).Msg("⚠️ Elasticsearch unavailable, order search disabled")
			c.Elastic = nil
		}
	}

	if cfg.MinioEndpoint != "" {
		if c.MinIO, err = NewMinIO(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL); err != nil {
			log.Warn().Err(err).Msg("⚠️ MinIO unavailable, export upload disabled")
			c.MinIO = nil
		}
	}

	return c, nil
}

// Close releases every open connection.
func (c *Connections) Close(ctx context.Context) {
	if c.Scylla != nil {
		c.Scylla.Close()
		log.Info().Msg("🔌 ScyllaDB session closed")
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ Redis close")
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("⚠️ MongoDB disconnect")
		}
	}
}

// =============================================
// SCYLLA DB
// =============================================

func NewScyllaSession(cfg *config.Config) (*gocql.Session, error) {
	hosts := cfg.ScyllaHostList()
	if len(hosts) == 0 {
		return nil, errors.New("SCYLLA_HOSTS is empty")
	}

	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.ScyllaTimeout
	cluster.NumConns = 4
	cluster.ReconnectInterval = time.Second
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	if cfg.ScyllaUser != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUser,
			Password: cfg.ScyllaPassword,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla session for %s: %w", cfg.ScyllaKeyspace, err)
	}
	log.Info().Str("keyspace", cfg.ScyllaKeyspace).Msg("✅ Connected to ScyllaDB")
	return session, nil
}

// =============================================
// REDIS
// =============================================

func NewRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("✅ Connected to Redis")
	return client, nil
}

// =============================================
// MONGODB
// =============================================

func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info().Msg("✅ Connected to MongoDB")
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func NewElastic(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elastic info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic info: %s", res.Status())
	}

	log.Info().Str("url", url).Msg("✅ Connected to Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================

func NewMinIO(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	log.Info().Str("endpoint", endpoint).Msg("✅ MinIO client ready")
	return client, nil
}
