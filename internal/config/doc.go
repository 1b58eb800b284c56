// Package config loads the process-level configuration shared by recohub's
// three daemons: concurrency knobs, signature size, and backend endpoints.
//
// # Overview
//
// Every daemon starts from the same Config struct, loaded through viper so
// a value can come from any of three layers. Later layers win:
//
//  1. An optional YAML config file (--config)
//  2. RECOHUB_-prefixed environment variables (RECOHUB_MAX_CONCURRENT, ...)
//  3. Command-line flags bound by each daemon's cobra command
//
// # Configuration Values
//
//	max_concurrent    - max in-flight crawler fetch tasks (default 8)
//	batch_size        - messages dequeued per broker drain (default 20)
//	sleep_interval    - crawler sleep when the queue is empty (default 2s)
//	sig_size          - MinHash signature width P (default 128)
//	redis_addr        - KV/broker backend endpoint (default localhost:6379)
//	mongo_uri         - document store URI (default mongodb://localhost:27017)
//	mongo_db          - document store database name (default recohub)
//	credentials_file  - newline-delimited bearer tokens (default credentials.txt)
//	error_log_path    - crawler error sink file (default crawler-errors.log)
//	http_addr         - query server listen address (default :8080)
//
// sig_size must agree across every process of a deployment; signatures
// written at one width are unreadable at another.
//
// # Usage Examples
//
//	cfg, err := config.Load(cmd.Flags(), configFile)
//	if err != nil {
//	    return err
//	}
//	eng := index.New(store, cfg.SigSize)
//
// # Testing
//
// The package's tests cover each precedence layer: pure defaults, an
// environment override, and a flag override.
//
// Running tests:
//
//	go test ./internal/config/...
//
// # See Also
//
// Related packages:
//   - cmd/crawler, cmd/trainer, cmd/queryserver: The three consumers
package config
