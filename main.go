package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielhkuo/article-voting/cliparse"
	"github.com/danielhkuo/article-voting/db"
	"github.com/danielhkuo/article-voting/middleware"
	"github.com/danielhkuo/article-voting/router"
	"github.com/danielhkuo/article-voting/store"
	"github.com/danielhkuo/article-voting/votes"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the vote store
	voteStore, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("vote store unavailable", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Vote store ready", "store", cfg.StoreType)

	// Metrics registry with the standard process collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Create router
	svc := votes.NewService(voteStore)
	mux := router.NewRouter(svc, cfg, reg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		drain(&server, shutdownTimeout)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

const shutdownTimeout = 5 * time.Second

// drain stops accepting connections and waits up to timeout for in-flight
// requests. A drain that times out is logged and returned.
func drain(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown did not drain connections", "error", err, "timeout", timeout)
		return err
	}
	return nil
}

// openStore builds the votes.Store selected by cfg.StoreType. The returned
// func releases its connections.
func openStore(cfg cliparse.Config) (votes.Store, func(), error) {
	switch cfg.StoreType {
	case cliparse.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil

	case cliparse.StoreMemory:
		slog.Warn("using in-memory vote store, votes are lost on restart")
		return votes.NewMemoryStore(), func() {}, nil

	default:
		conn, err := db.Open(cfg)
		if err != nil {
			return nil, nil, err
		}

		// Create schema (tables)
		if err := db.CreateSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return store.NewSQLStore(conn), func() { conn.Close() }, nil
	}
}
