package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/chessbot-backend/internal/config"
	"github.com/benbeisheim/chessbot-backend/internal/controller"
	"github.com/benbeisheim/chessbot-backend/internal/engine"
	"github.com/benbeisheim/chessbot-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load(os.Getenv("CHESS_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.SetLevel(logLevel(cfg.Server.LogLevel))

	eng, err := engine.New(cfg.Engine.Depth)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(eng, cfg.ClockTime(), cfg.MatchmakingInterval())
	gameService := service.NewGameService(gameManager)

	controller.SetupRoutes(app, gameService, cfg.Server.AllowOrigins)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s with search depth %d", cfg.Server.Addr, eng.Depth())
	if err := app.Listen(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
	gameManager.Close()
}

func logLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
