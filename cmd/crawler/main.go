// Package main implements the recohub crawler daemon, which drains the
// repository work queue and persists fetched GitHub metadata to the
// document store.
//
// The crawler is the ingestion half of recohub's metadata pipeline,
// responsible for:
//   - Draining (owner, name) crawl targets from the broker queue
//   - Multiplexing GraphQL fetches across the rate-limited credential pool
//   - Upserting repository documents into Mongo, idempotent by id
//   - Recording permanent GraphQL failures to an append-only error log
//   - Requeueing targets on transient network/store failures
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│               Crawler                   │
//	├─────────────────────────────────────────┤
//	│  Inputs:                                │
//	│    redis list     - "repository" queue  │
//	│    credentials    - bearer token file   │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    broker.Broker  - queue drain/requeue │
//	│    creds.Pool     - token rotation      │
//	│    crawler.Crawler- bounded fetch pool  │
//	│    MongoSink      - document upserts    │
//	│    FileSystemSink - error log           │
//	└─────────────────────────────────────────┘
//
// Configuration (flags, RECOHUB_* env, or YAML via --config):
//   - redis_addr: Queue/index backend (default: "localhost:6379")
//   - mongo_uri/mongo_db: Document store (default: local, "recohub")
//   - credentials_file: One bearer token per line
//   - max_concurrent/batch_size/sleep_interval: Loop tuning
//
// Example usage:
//
//	# Start the crawler
//	RECOHUB_CREDENTIALS_FILE=tokens.txt ./crawler --max-concurrent 8
//
//	# Enqueue a crawl target
//	redis-cli LPUSH repository '{"owner":"golang","name":"go"}'
//
//	# Watch permanent failures
//	tail -f crawler-errors.log
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craftsangjae/recohub-go/internal/broker"
	"github.com/craftsangjae/recohub-go/internal/config"
	"github.com/craftsangjae/recohub-go/internal/crawler"
	"github.com/craftsangjae/recohub-go/internal/creds"
	"github.com/craftsangjae/recohub-go/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("crawler exited")
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "crawler",
		Short: "Drain the repository broker and persist fetched GitHub metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	cmd.Flags().Int("max-concurrent", 0, "max in-flight fetch tasks")
	cmd.Flags().Int("batch-size", 0, "messages dequeued per broker drain")
	cmd.Flags().Duration("sleep-interval", 0, "sleep interval when the broker is empty")
	cmd.Flags().String("redis-addr", "", "redis endpoint backing the broker/index store")
	cmd.Flags().String("mongo-uri", "", "mongo connection URI for the document store")
	cmd.Flags().String("mongo-db", "", "mongo database name")
	cmd.Flags().String("credentials-file", "", "newline-delimited GitHub bearer tokens")
	cmd.Flags().String("error-log-path", "", "append-only file for permanent fetch failures")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.StandardLogger()

	keys, err := creds.LoadKeyFile(cfg.CredentialsFile)
	if err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	s := store.NewRedisStore(redisClient)
	b := broker.New(s, "repository")

	prober := crawler.NewQuotaProber(nil)
	pool, err := creds.New(ctx, keys, prober, log)
	if err != nil {
		return err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()
	sink := crawler.NewMongoSink(mongoClient.Database(cfg.MongoDB).Collection("repositories"))

	errSink, err := crawler.NewFileSystemSink(cfg.ErrorLogPath)
	if err != nil {
		return err
	}
	defer errSink.Close()

	c := crawler.New(b, pool, sink, errSink, nil, crawler.Config{
		MaxConcurrent: cfg.MaxConcurrent,
		BatchSize:     cfg.BatchSize,
		SleepInterval: cfg.SleepInterval,
	}, log)

	log.WithFields(logrus.Fields{
		"max_concurrent": cfg.MaxConcurrent,
		"batch_size":     cfg.BatchSize,
		"credentials":    len(keys),
	}).Info("crawler starting")

	err = c.Run(ctx)
	if err != nil && ctx.Err() != nil {
		log.Info("crawler shutting down")
		return nil
	}
	return err
}
