package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumenhq/livefeed/internal/api"
	"github.com/lumenhq/livefeed/internal/channel"
	"github.com/lumenhq/livefeed/internal/config"
	"github.com/lumenhq/livefeed/internal/endpoint"
	"github.com/lumenhq/livefeed/internal/poll"
	"github.com/lumenhq/livefeed/internal/store"
	"github.com/lumenhq/livefeed/internal/version"
	"github.com/lumenhq/livefeed/internal/view"
)

func main() {
	configPath := flag.String("config", "configs/feedwatch.local.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting feedwatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"dashboard", cfg.Dashboard.BaseURL,
		"endpoints", len(cfg.Endpoints),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// REST client for initial state and status polling.
	apiBase, err := endpoint.ResolveAPI(cfg.Dashboard.BaseURL, "")
	if err != nil {
		logger.Error("failed to resolve api base", "error", err)
		os.Exit(1)
	}
	apiClient := api.NewClient(apiBase, cfg.Dashboard.Token,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Dashboard.Timeout),
	)

	if health, err := apiClient.GetHealth(ctx); err != nil {
		logger.Warn("dashboard health check failed", "error", err)
	} else {
		logger.Info("dashboard reachable",
			"status", health.Status,
			"server_version", health.Version,
		)
	}

	// Event history writer (optional).
	var writer *store.EventWriter
	if cfg.History.Enabled {
		logger.Info("connecting to history database",
			"host", cfg.Database.History.Host,
			"database", cfg.Database.History.Name,
		)

		pool, err := store.Connect(ctx, cfg.Database.History)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		writer = store.NewEventWriter(store.WriterConfig{
			BatchSize:     cfg.History.BatchSize,
			FlushInterval: cfg.History.FlushInterval,
			BufferSize:    cfg.History.BufferSize,
		}, pool, logger)

		if err := writer.Start(ctx); err != nil {
			logger.Error("failed to start event writer", "error", err)
			os.Exit(1)
		}
	}

	// Views.
	chatView := view.NewChatView(logger)
	trainingView := view.NewTrainingView(logger)
	tradingView := view.NewTradingView(logger)
	analyticsView := view.NewAnalyticsView(logger)
	defer func() {
		chatView.Close()
		trainingView.Close()
		tradingView.Close()
		analyticsView.Close()
	}()

	seedChat(ctx, apiClient, chatView, logger)

	// Live channels.
	channels := make(map[string]*channel.Channel, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		wsURL, err := endpoint.ResolveWS(cfg.Dashboard.BaseURL, ep.Path)
		if err != nil {
			logger.Error("failed to resolve endpoint url", "endpoint", ep.Name, "error", err)
			os.Exit(1)
		}

		ch := channel.New(channel.Config{
			Name:           ep.Name,
			URL:            wsURL,
			Token:          cfg.Dashboard.Token,
			ReconnectDelay: ep.ReconnectDelay,
			PingInterval:   ep.PingInterval,
			PingTimeout:    ep.PingTimeout,
			BufferSize:     ep.BufferSize,
		}, logger)

		ch.OnStateChange(func(sc channel.StateChange) {
			if sc.Err != nil {
				logger.Warn("channel state change",
					"channel", ep.Name,
					"from", sc.From,
					"to", sc.To,
					"cause", sc.Err,
				)
				return
			}
			logger.Info("channel state change",
				"channel", ep.Name,
				"from", sc.From,
				"to", sc.To,
			)
		})

		bindViews(ep.Name, ch, chatView, trainingView, tradingView, analyticsView)

		if writer != nil {
			ch.OnMessage(writer.Handler(ep.Name))
		}

		channels[ep.Name] = ch
	}

	for name, ch := range channels {
		if err := ch.Open(ctx); err != nil {
			logger.Error("failed to open channel", "channel", name, "error", err)
			os.Exit(1)
		}
	}
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	// Status poller covers the REST half of the dashboards.
	poller := poll.New(poll.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}, []poll.Task{
		tradingView.PollTask(apiClient),
		trainingView.PollTask(apiClient),
		analyticsView.PollTask(apiClient),
	}, logger)

	if err := poller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	// Health server.
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(cfg, channels, writer, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return healthServer.Shutdown(shutdownCtx)
	})

	logger.Info("feedwatch running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d%s", cfg.Health.Port, cfg.Health.Path),
	)

	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	poller.Stop(shutdownCtx)
	for _, ch := range channels {
		ch.Close()
	}
	if writer != nil {
		writer.Stop(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.Error("health server error", "error", err)
	}

	logger.Info("feedwatch stopped")
}

// seedChat loads initial rooms and history over REST before the live
// channel takes over incremental updates.
func seedChat(ctx context.Context, client *api.Client, chatView *view.ChatView, logger *slog.Logger) {
	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rooms, err := client.GetRooms(fetchCtx)
	if err != nil {
		logger.Warn("failed to fetch rooms, starting cold", "error", err)
		return
	}

	history := make(map[int64][]api.RoomMessage, len(rooms))
	for _, room := range rooms {
		msgs, err := client.GetRoomMessages(fetchCtx, room.ID)
		if err != nil {
			logger.Warn("failed to fetch room history",
				"room_id", room.ID,
				"error", err,
			)
			continue
		}
		history[room.ID] = msgs
	}

	chatView.Seed(rooms, history)
	logger.Info("chat state seeded", "rooms", len(rooms))
}

// bindViews attaches the views that consume a given endpoint's event types.
// Unknown types are ignored by the dispatch table, so over-binding is
// harmless; this mapping just keeps the subscription tables small.
func bindViews(name string, ch *channel.Channel, chatView *view.ChatView, trainingView *view.TrainingView, tradingView *view.TradingView, analyticsView *view.AnalyticsView) {
	switch name {
	case "chat", "rooms":
		chatView.Bind(ch)
	case "trading":
		tradingView.Bind(ch)
	default:
		trainingView.Bind(ch)
		analyticsView.Bind(ch)
	}
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(cfg *config.WatcherConfig, channels map[string]*channel.Channel, writer *store.EventWriter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(cfg.Health.Path, func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string         `json:"status"`
			Instance   string         `json:"instance"`
			Version    string         `json:"version"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Instance:   cfg.Instance.ID,
			Version:    version.Version,
			Components: make(map[string]any),
		}

		open := 0
		for name, ch := range channels {
			state := ch.State()
			stats := ch.Stats()
			health.Components["channel_"+name] = map[string]any{
				"state":        state.String(),
				"received":     stats.Received,
				"dispatched":   stats.Dispatched,
				"parse_errors": stats.ParseErrors,
				"unknown":      stats.UnknownType,
			}
			if state == channel.StateOpen {
				open++
			}
		}
		if open == 0 {
			health.Status = "degraded"
		}

		if writer != nil {
			stats := writer.Stats()
			health.Components["event_writer"] = map[string]any{
				"inserts": stats.Inserts,
				"flushes": stats.Flushes,
				"errors":  stats.Errors,
				"dropped": stats.Dropped,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
