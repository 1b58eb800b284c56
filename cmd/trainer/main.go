// Package main implements the recohub trainer daemon, which drains an
// external {item, users} row source into the MinHash index.
//
// The trainer is the bulk-ingest path of recohub's recommendation index,
// responsible for:
//   - Reading {item, users} rows from a newline-delimited JSON file
//   - Folding each row into the index via the engine's differential update
//   - Retrying transient row-source errors with constant backoff
//   - Exiting cleanly once the source is exhausted
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│               Trainer                   │
//	├─────────────────────────────────────────┤
//	│  Input:                                 │
//	│    --input rows.jsonl                   │
//	│      {"item":100,"users":[42,7]}        │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    fileRowSource  - line-by-line rows   │
//	│    trainer.Trainer- retry/backoff loop  │
//	│    index.Engine   - signature updates   │
//	│    RedisStore     - index backend       │
//	└─────────────────────────────────────────┘
//
// Configuration (flags, RECOHUB_* env, or YAML via --config):
//   - redis_addr: Index backend (default: "localhost:6379")
//   - sig_size: Signature width; must match the query server's
//
// Example usage:
//
//	# Ingest a warehouse export
//	./trainer --input rows.jsonl --redis-addr localhost:6379
//
//	# Verify an item landed
//	redis-cli GET 100
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/craftsangjae/recohub-go/internal/config"
	"github.com/craftsangjae/recohub-go/internal/index"
	"github.com/craftsangjae/recohub-go/internal/store"
	"github.com/craftsangjae/recohub-go/internal/trainer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("trainer exited")
	}
}

func newRootCmd() *cobra.Command {
	var configFile, inputPath string

	cmd := &cobra.Command{
		Use:   "trainer",
		Short: "Feed {item, users} rows into the MinHash index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, inputPath)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	cmd.Flags().StringVar(&inputPath, "input", "", "newline-delimited JSON {item, users} row file")
	cmd.Flags().String("redis-addr", "", "redis endpoint backing the index store")
	cmd.Flags().Int("sig-size", 0, "number of MinHash bands")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, inputPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.StandardLogger()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	s := store.NewRedisStore(redisClient)
	eng := index.New(s, cfg.SigSize)

	src := newFileRowSource(f)
	tr := trainer.New(src, eng, log)

	log.WithField("input", inputPath).Info("trainer starting")
	return tr.Run(ctx)
}
