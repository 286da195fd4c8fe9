package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielhkuo/team-election/cliparse"
	"github.com/danielhkuo/team-election/db"
	"github.com/danielhkuo/team-election/election"
	"github.com/danielhkuo/team-election/mail"
	"github.com/danielhkuo/team-election/middleware"
	"github.com/danielhkuo/team-election/router"
	"github.com/danielhkuo/team-election/store"
	"github.com/danielhkuo/team-election/teams"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Environment from .env, if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Load teams into memory
	st := store.NewSQL(dbConn)
	registry, err := teams.Load(ctx, st)
	if err != nil {
		slog.Error("loading teams failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Teams loaded", "count", len(registry.List()))

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, cfg.DatabaseType),
	)

	svc, err := election.New(election.Config{
		Store:         st,
		Teams:         registry,
		TokenCacheTTL: cfg.TokenCacheTTL,
		VoteCacheTTL:  cfg.VoteCacheTTL,
		Logger:        slog.Default(),
		PromRegistry:  promRegistry,
	})
	if err != nil {
		slog.Error("service creation failed", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	// Mail delivery
	var sender mail.Sender = &mail.LogSender{Logger: slog.Default()}
	if cfg.SMTPAddr != "" {
		sender = &mail.SMTPSender{
			Addr:     cfg.SMTPAddr,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}
	} else {
		slog.Warn("SMTP_ADDR not set, verification mails are only logged")
	}

	// Create router
	mux := router.NewRouter(svc, sender, cfg, promRegistry)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("listen failed", "error", err)
		os.Exit(1)
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	// Start server; in-flight requests finish before the service is closed
	slog.Info("Listening", "port", cfg.Port)
	if err := serve(&server, ln, ctrlc); err != nil {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// serve runs server on ln until stop fires, then shuts it down. It returns
// only after in-flight requests have finished or shutdownTimeout has passed.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal) error {
	served := make(chan struct{})
	shutdownErr := make(chan error, 1)
	go func() {
		// Wait for Ctrl-C signal
		select {
		case <-stop:
		case <-served:
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(ctx)
		if err != nil {
			server.Close()
		}
		shutdownErr <- err
	}()

	err := server.Serve(ln)
	close(served)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
