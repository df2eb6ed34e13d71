package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/mkrall/pokerroom/internal/randutil"
	"github.com/mkrall/pokerroom/internal/server"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `kong:"default='pokerroom.hcl',help='Path to HCL config file'"`
	Addr    string           `kong:"help='Listen address (overrides config)'"`
	Debug   bool             `kong:"help='Enable debug logging'"`
	Seed    *int64           `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *CLI) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	addr := cfg.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv := server.NewServer(addr, logger)
	registry := server.NewRegistry(rng, logger)
	service := server.NewGameService(
		registry, srv, quartz.NewReal(), logger,
		cfg.DefaultSettings(),
		time.Duration(cfg.Server.TurnTimeoutSeconds)*time.Second,
		time.Duration(cfg.Server.BotThinkMs)*time.Millisecond,
	)
	srv.SetGameService(service)

	logger.Info("starting poker room server",
		"addr", addr,
		"turn_timeout", cfg.Server.TurnTimeoutSeconds,
		"bot_think_ms", cfg.Server.BotThinkMs,
		"default_game", cfg.RoomDefaults.Variant)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerroomd"),
		kong.Description("Live multiplayer poker room server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
