package main

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "log/slog"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/fintrack/fintrackd/internal/config"
    "github.com/fintrack/fintrackd/internal/fintrack"
    "github.com/fintrack/fintrackd/internal/httpapi"
    "github.com/fintrack/fintrackd/internal/storage/memory"
    pgstore "github.com/fintrack/fintrackd/internal/storage/postgres"
)

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    cfg := config.Load()
    logger := buildLogger(cfg)
    slog.SetDefault(logger)

    var store httpapi.Store
    var closeFn func()

    if cfg.DatabaseURL != "" {
        pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
        if err != nil {
            logger.Error("failed to connect to postgres", "err", err)
            os.Exit(1)
        }
        closeFn = func() { pg.Close() }
        if cfg.DevSeed {
            cycle, cust, err := pg.SeedDev(ctx)
            if err != nil {
                logger.Error("dev seed failed", "err", err)
            } else {
                logger.Info("DEV seed (postgres)", "cycle_id", cycle.ID.String(), "customer_id", cust.ID.String())
            }
        }
        store = pg
        logger.Info("storage backend: postgres")
    } else {
        mem := memory.New()
        if cfg.DevSeed {
            seedMemory(ctx, mem, logger)
        }
        store = mem
        logger.Info("storage backend: memory")
    }

    srv := &http.Server{
        Addr:              cfg.Address(),
        Handler:           httpapi.New(store, cfg.WindowDays, logger).Handler(),
        ReadTimeout:       5 * time.Second,
        ReadHeaderTimeout: 5 * time.Second,
        WriteTimeout:      10 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    errCh := make(chan error, 1)
    go func() {
        logger.Info("fintrack service listening", "addr", srv.Addr)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            errCh <- err
        }
    }()

    select {
    case <-ctx.Done():
        ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := srv.Shutdown(ctxShutdown); err != nil {
            logger.Error("server shutdown error", "err", err)
        }
    case err := <-errCh:
        logger.Error("server error", "err", err)
    }
    if closeFn != nil {
        closeFn()
    }
}

// seedMemory creates a demo cycle and customer so the API is usable
// immediately in local runs.
func seedMemory(ctx context.Context, mem *memory.Store, l *slog.Logger) {
    cycle, err := fintrack.NewCycle(
        decimal.NewFromInt(100),
        decimal.NewFromInt(50),
        decimal.NewFromInt(500),
    )
    if err != nil {
        l.Error("dev seed failed", "err", err)
        return
    }
    cycle.ID = uuid.New()
    cycle.CreatedAt = time.Now().UTC()
    if _, err := mem.CreateCycle(ctx, cycle); err != nil {
        l.Error("dev seed failed", "err", err)
        return
    }
    cust := fintrack.Customer{ID: uuid.New(), Name: "Walk-in"}
    if _, err := mem.CreateCustomer(ctx, cust); err != nil {
        l.Error("dev seed failed", "err", err)
        return
    }
    l.Info("DEV seed (memory)", "cycle_id", cycle.ID.String(), "customer_id", cust.ID.String())
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
    switch s {
    case "DEBUG", "debug":
        return slog.LevelDebug
    case "WARN", "WARNING", "warn", "warning":
        return slog.LevelWarn
    case "ERROR", "ERR", "error", "err":
        return slog.LevelError
    default:
        return slog.LevelInfo
    }
}

func buildLogger(cfg config.Config) *slog.Logger {
    level := parseLogLevel(cfg.LogLevel)
    if cfg.LogFormat == "text" {
        return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
    }
    return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
