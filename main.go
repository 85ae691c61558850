// Command dafuweng starts the Dafuweng game server.
//
// It supports two modes:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (optionally a .env file) and can be
// overridden with flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/dafuweng/api"
	"github.com/wricardo/dafuweng/game/config"
	"github.com/wricardo/dafuweng/game/service"
	"github.com/wricardo/dafuweng/game/session"
	"github.com/wricardo/dafuweng/logging"
	"github.com/wricardo/dafuweng/transport/mcp"
	"github.com/wricardo/dafuweng/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Dafuweng Server"
)

// ServerConfig holds process settings read from the environment
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ConfigDir       string        `env:"CONFIG_DIR" envDefault:"configs"`
	DefaultConfig   string        `env:"DEFAULT_CONFIG"`
	Debug           bool          `env:"DEBUG"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	// ExternalAPI is health-checked by stdio mode before it starts its own listener
	ExternalAPI string `env:"EXTERNAL_API" envDefault:"http://localhost:8080"`
}

// Addr returns host:port
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

func loadConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Usage: "HTTP server host (env HOST)"},
		&cli.IntFlag{Name: "port", Usage: "HTTP server port (env PORT)"},
		&cli.StringFlag{Name: "config-dir", Usage: "directory containing setup presets (env CONFIG_DIR)"},
		&cli.StringFlag{Name: "default-config", Usage: "preset used when a session names none (env DEFAULT_CONFIG)"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging (env DEBUG)"},
		&cli.DurationFlag{Name: "session-ttl", Usage: "drop sessions idle for longer than this (env SESSION_TTL)"},
		&cli.DurationFlag{Name: "cleanup-interval", Usage: "how often idle sessions are pruned (env CLEANUP_INTERVAL)"},
		&cli.StringFlag{Name: "external-api", Usage: "API reused by stdio mode when healthy, empty to always run an internal one (env EXTERNAL_API)"},
	}
}

// resolveConfig reads the environment and applies any flags that were set
func resolveConfig(cmd *cli.Command) (ServerConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("config-dir") {
		cfg.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("default-config") {
		cfg.DefaultConfig = cmd.String("default-config")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("session-ttl") {
		cfg.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.IsSet("cleanup-interval") {
		cfg.CleanupInterval = cmd.Duration("cleanup-interval")
	}
	if cmd.IsSet("external-api") {
		cfg.ExternalAPI = cmd.String("external-api")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.SessionTTL <= 0 || cfg.CleanupInterval <= 0 {
		return cfg, errors.New("session ttl and cleanup interval must be positive")
	}
	return cfg, nil
}

type modeFunc func(ctx context.Context, cfg ServerConfig, svc service.GameService, sessions *session.Manager) error

// withServices resolves settings, configures logging and wires the services
// before handing over to a mode.
func withServices(mode string, run modeFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		logging.Setup(cfg.Debug)
		log.Info().Str("version", Version).Str("mode", mode).Msgf("starting %s", AppName)

		svc, sessions, err := initializeServices(cfg.ConfigDir, cfg.DefaultConfig)
		if err != nil {
			return fmt.Errorf("initialize services: %w", err)
		}
		return run(ctx, cfg, svc, sessions)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "dafuweng",
		Usage:   AppName,
		Version: Version,
		Flags:   globalFlags(),
		Action:  withServices("server", runHTTPServer),
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  withServices("server", runHTTPServer),
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by an external or internal HTTP API",
				Action:  withServices("stdio-mcp", runStdioMCP),
			},
		},
	}
}

// main loads .env, then runs the selected mode until interrupted
func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Setup(false)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("error loading .env file")
	}

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

// initializeServices wires the config and session managers into the game
// service. An empty defaultConfig keeps the config manager's own choice.
func initializeServices(configDir, defaultConfig string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if defaultConfig != "" {
		if err := configManager.SetDefault(defaultConfig); err != nil {
			return nil, nil, fmt.Errorf("default config %q: %w", defaultConfig, err)
		}
		log.Info().Str("config", defaultConfig).Msg("default preset selected")
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// newHTTPHandler mounts the REST API at the root and the MCP JSON-RPC endpoint at /mcp
func newHTTPHandler(apiServer http.Handler, mcpServer *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// notifications have no reply
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("failed to write MCP response")
		}
	})
	return mux
}

// runHTTPServer serves the REST API, WebSocket hub and /mcp endpoint until ctx is done
func runHTTPServer(ctx context.Context, cfg ServerConfig, svc service.GameService, sessions *session.Manager) error {
	hub := websocket.NewHub()
	go hub.Run(ctx)
	go sessions.RunCleanup(ctx, cfg.SessionTTL, cfg.CleanupInterval)

	addr := cfg.Addr()
	mcpClient := mcp.NewClient("http://" + addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newHTTPHandler(api.NewServer(svc, hub), mcpClient.GetMCPServer()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("rest", "http://"+addr+"/api").
			Str("websocket", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msgf("HTTP server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Int("active_sessions", sessions.Count()).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// apiHealthy reports whether an API answers health checks at baseURL
func apiHealthy(ctx context.Context, baseURL string) bool {
	if baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns its base URL
func startInternalAPI(ctx context.Context, svc service.GameService) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(svc, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("internal HTTP server error")
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runStdioMCP runs an MCP stdio server. It reuses the external API when one
// answers, otherwise it starts an internal API on a loopback port.
func runStdioMCP(ctx context.Context, cfg ServerConfig, svc service.GameService, sessions *session.Manager) error {
	baseURL := cfg.ExternalAPI
	if apiHealthy(ctx, baseURL) {
		log.Info().Str("api", baseURL).Msg("using external API server for MCP")
	} else {
		go sessions.RunCleanup(ctx, cfg.SessionTTL, cfg.CleanupInterval)

		url, httpServer, err := startInternalAPI(ctx, svc)
		if err != nil {
			return err
		}
		defer httpServer.Close()
		baseURL = url
		log.Info().Str("api", baseURL).Msg("started internal HTTP server for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}
