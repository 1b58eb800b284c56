// Package main implements the recohub query server, which serves top-k
// repository recommendations over HTTP and accepts new observations into
// the index.
//
// The query server is the serving half of recohub's recommendation index,
// responsible for:
//   - Top-k similar-repository lookups via posting-list collision counts
//   - Folding single (repo, user) observations into the index
//   - Mapping unknown items and malformed arguments to 404 responses
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│             Query Server                │
//	├─────────────────────────────────────────┤
//	│  HTTP API:                              │
//	│    GET  /repository?repo_id=N           │
//	│         [&num_recommend=K]              │
//	│           → {"repository":[id,...]}     │
//	│    PUT|POST /repository?repo_id=N       │
//	│             &user_id=M → 201 "Success"  │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    chi router     - route decoding      │
//	│    query.Recommend- top-k retrieval     │
//	│    index.Engine   - observation writes  │
//	│    RedisStore     - index backend       │
//	└─────────────────────────────────────────┘
//
// Configuration (flags, RECOHUB_* env, or YAML via --config):
//   - http_addr: Listen address (default: ":8080")
//   - redis_addr: Index backend (default: "localhost:6379")
//   - sig_size: Signature width; must match the trainer's
//
// Example usage:
//
//	# Start the server
//	./queryserver --http-addr :8080
//
//	# Record an observation
//	curl -X PUT 'localhost:8080/repository?repo_id=100&user_id=42'
//
//	# Ask for recommendations
//	curl 'localhost:8080/repository?repo_id=100&num_recommend=5'
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/craftsangjae/recohub-go/internal/config"
	"github.com/craftsangjae/recohub-go/internal/index"
	"github.com/craftsangjae/recohub-go/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("queryserver exited")
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "queryserver",
		Short: "Serve top-k repository recommendations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	cmd.Flags().String("http-addr", "", "address to listen on")
	cmd.Flags().String("redis-addr", "", "redis endpoint backing the index store")
	cmd.Flags().Int("sig-size", 0, "number of MinHash bands (must match the trainer's)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.StandardLogger()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	s := store.NewRedisStore(redisClient)
	eng := index.New(s, cfg.SigSize)

	srv := &server{store: s, index: eng, log: log.WithField("component", "queryserver")}
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: newRouter(srv),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("queryserver listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("queryserver shutting down")
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
