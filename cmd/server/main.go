package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/acquire/internal/api"
	"github.com/kiliankoe/acquire/internal/config"
	"github.com/kiliankoe/acquire/internal/room"
	"github.com/kiliankoe/acquire/internal/storage"
	"github.com/kiliankoe/acquire/internal/ws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Acquire - multiplayer board game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  LOG_LEVEL           zerolog level: debug, info, warn, error (default: info)
  DATABASE_URL        Postgres DSN for game transcripts (default: keep in memory)
  ADMIN_USER          Username for basic auth on /api (optional)
  ADMIN_PASS          Password for basic auth on /api (optional)
  EXPORT_ENABLED      Export finished games to file (default: true)
  EXPORT_FILE         Path to export finished games (default: ./acquire-games.txt)
  SEED                Fixed random seed for turn orders and tile bags (default: clock)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Clients connect with Socket.IO at /socket.io/?username=NAME&version=%d.
`, os.Args[0], os.Args[0], os.Args[0], room.ProtocolVersion)
		return
	}

	if *showVersion {
		fmt.Printf("Acquire %s (protocol %d)\n", version, room.ProtocolVersion)
		return
	}

	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Storage: postgres when configured, memory otherwise
	var store room.Store = storage.NewMemory()
	if cfg.DatabaseURL != "" {
		db, err := storage.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database")
		}
		store = storage.NewStore(db)
		log.Info().Msg("storing games in postgres")
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server + room manager
	sock := ws.New()
	sock.RM = room.NewManager(sock, store, room.Options{
		ExportEnabled: cfg.ExportEnabled,
		ExportFile:    cfg.ExportFile,
		Seed:          cfg.Seed,
	})
	io := sock.Mount(r)
	defer io.Close()

	// Read-only game API, behind basic auth when configured
	var apiRouter gin.IRouter = r
	if cfg.AdminUser != "" && cfg.AdminPass != "" {
		apiRouter = r.Group("/", gin.BasicAuth(gin.Accounts{cfg.AdminUser: cfg.AdminPass}))
	}
	(&api.Handler{RM: sock.RM, Store: store}).Register(apiRouter)

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
