// Package server provides the HTTP transport mode: a fiber app exposing
// the MCP streamable endpoint next to a health check. Stdio transport
// is handled directly in main.
package server

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type Server struct {
	app *fiber.App
}

func New(mcpServer *mcp.Server) *Server {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Mcp-Session-Id"},
	}))

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	app.All("/mcp", adaptor.HTTPHandler(streamable))

	return &Server{app: app}
}

func (s *Server) Start(port string) {
	log.Info().Str("port", port).Msg("Starting MCP HTTP server")

	err := s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
