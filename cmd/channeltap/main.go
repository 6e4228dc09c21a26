// channeltap connects to a single dashboard WebSocket endpoint and streams
// decoded events to the console.
// Usage: go run ./cmd/channeltap --config configs/feedwatch.local.yaml --endpoint chat
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumenhq/livefeed/internal/channel"
	"github.com/lumenhq/livefeed/internal/config"
	"github.com/lumenhq/livefeed/internal/endpoint"
	"github.com/lumenhq/livefeed/internal/event"
)

func main() {
	configPath := flag.String("config", "configs/feedwatch.example.yaml", "path to config file")
	endpointName := flag.String("endpoint", "", "endpoint name from config (default: first)")
	verbose := flag.Bool("verbose", false, "print full message JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ep := cfg.Endpoints[0]
	if *endpointName != "" {
		found := false
		for _, candidate := range cfg.Endpoints {
			if candidate.Name == *endpointName {
				ep = candidate
				found = true
				break
			}
		}
		if !found {
			logger.Error("endpoint not found in config", "endpoint", *endpointName)
			os.Exit(1)
		}
	}

	wsURL, err := endpoint.ResolveWS(cfg.Dashboard.BaseURL, ep.Path)
	if err != nil {
		logger.Error("failed to resolve endpoint url", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

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
		logger.Info("state", "from", sc.From, "to", sc.To, "cause", sc.Err)
	})

	ch.OnMessage(func(msg event.Message) {
		if *verbose {
			fmt.Printf("[%s] %s %s\n", msg.ReceivedAt.Format(time.RFC3339Nano), msg.Type, msg.Data)
			return
		}
		fmt.Printf("[%s] %s (%d bytes)\n", msg.ReceivedAt.Format("15:04:05.000"), msg.Type, len(msg.Data))
	})

	if err := ch.Open(ctx); err != nil {
		logger.Error("failed to open channel", "error", err)
		os.Exit(1)
	}

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := ch.Stats()
				logger.Info("stats",
					"state", ch.State(),
					"received", stats.Received,
					"dispatched", stats.Dispatched,
					"parse_errors", stats.ParseErrors,
					"unknown", stats.UnknownType,
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop",
		"endpoint", ep.Name,
		"url", wsURL,
	)

	<-ctx.Done()

	logger.Info("shutting down...")
	if err := ch.Close(); err != nil {
		logger.Error("close error", "error", err)
	}

	stats := ch.Stats()
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Printf("final stats:\n%s\n", out)
}
