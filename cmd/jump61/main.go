package main

import (
    "context"
    "errors"
    "flag"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/jump61/internal/app"
    "github.com/jaminalder/jump61/internal/config"
    "github.com/jaminalder/jump61/internal/web"
)

func main() {
    cfgPath := flag.String("config", "", "JSON config file")
    addr := flag.String("addr", "", "listen address (overrides config)")
    levelStr := flag.String("log-level", "", "debug|info|warn|error (overrides config)")
    depth := flag.Int("depth", 0, "AI search depth in plies (overrides config)")
    mode := flag.String("mode", "", "AI search mode: classic|legacy (overrides config)")
    parallel := flag.Bool("parallel", false, "search AI root moves concurrently")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        slog.Error("config", "err", err)
        os.Exit(1)
    }
    if *addr != "" {
        cfg.Addr = *addr
    }
    if *levelStr != "" {
        cfg.LogLevel = *levelStr
    }
    if *depth != 0 {
        cfg.AIDepth = *depth
    }
    if *mode != "" {
        cfg.AIMode = *mode
    }
    if *parallel {
        cfg.AIParallel = true
    }
    if err := cfg.Validate(); err != nil {
        slog.Error("config", "err", err)
        os.Exit(1)
    }

    lvl := slog.LevelInfo
    switch cfg.LogLevel {
    case "debug":
        lvl = slog.LevelDebug
    case "warn":
        lvl = slog.LevelWarn
    case "error":
        lvl = slog.LevelError
    }
    logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

    svc := app.NewService(app.WithLogger(logger), app.WithAI(cfg.AIOptions()...))
    h := web.NewServer(svc,
        web.WithLogger(logger),
        web.WithDefaultSize(cfg.BoardSize),
        web.WithHeartbeat(cfg.Heartbeat()),
    )

    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           h,
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    errCh := make(chan error, 1)
    go func() {
        logger.Info("listening", "addr", cfg.Addr, "depth", cfg.AIDepth, "mode", cfg.AIMode, "parallel", cfg.AIParallel)
        errCh <- srv.ListenAndServe()
    }()

    select {
    case err := <-errCh:
        if err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server error", "err", err)
            os.Exit(1)
        }
    case <-ctx.Done():
        logger.Info("shutting down")
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := srv.Shutdown(shutdownCtx); err != nil {
            logger.Error("graceful shutdown failed", "err", err)
            _ = srv.Close()
        }
    }
}
