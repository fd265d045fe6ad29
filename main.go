package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/support-tools/freescout-mcp/cache"
	"github.com/support-tools/freescout-mcp/config"
	"github.com/support-tools/freescout-mcp/freescout"
	"github.com/support-tools/freescout-mcp/server"
	"github.com/support-tools/freescout-mcp/tools"
)

const version = "1.2.0"

func main() {
	// Stdout carries the MCP wire when running the stdio transport, so
	// logs always go to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	httpClient := http.Client{Timeout: 30 * time.Second}

	client := freescout.NewClient(cfg.FreeScoutURL, cfg.FreeScoutAPIKey, httpClient)
	store := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, cfg.CacheMaxEntries)
	handler := tools.NewHandler(client, store, cfg)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "freescout-mcp",
		Version: version,
	}, nil)
	handler.Register(mcpServer)

	log.Info().
		Str("freescout_url", cfg.FreeScoutURL).
		Str("default_inbox", cfg.DefaultInboxID).
		Bool("allow_pii", cfg.AllowPII).
		Str("transport", cfg.Transport).
		Msg("FreeScout MCP gateway starting")

	switch cfg.Transport {
	case "http":
		server.New(mcpServer).Start(cfg.Port)
	case "stdio":
		if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
			log.Fatal().Err(err).Msg("MCP stdio transport terminated")
		}
	default:
		log.Fatal().Str("transport", cfg.Transport).Msg("TRANSPORT must be stdio or http")
	}
}
