package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mleandrojr/mslovelace-bot/automod/actions"
	"github.com/mleandrojr/mslovelace-bot/automod/cachestore"
	"github.com/mleandrojr/mslovelace-bot/automod/commands"
	"github.com/mleandrojr/mslovelace-bot/automod/engine"
	"github.com/mleandrojr/mslovelace-bot/automod/shield"
	"github.com/mleandrojr/mslovelace-bot/automod/store"
	"github.com/mleandrojr/mslovelace-bot/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"gorm.io/gorm"
)

type Server struct {
	logger *slog.Logger
	client *telegram.Client
	engine *engine.Engine
	echo   *echo.Echo
	secret string
}

type Config struct {
	TelegramToken string
	TelegramHost  string
	RedisURL      string
	WebhookSecret string
	Logger        *slog.Logger
}

func NewServer(db *gorm.DB, config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	st, err := store.New(db)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	var cache cachestore.CacheStore
	if config.RedisURL != "" {
		csh, err := cachestore.NewRedisCacheStore(config.RedisURL, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %w", err)
		}
		cache = csh
	} else {
		cache = cachestore.NewMemCacheStore(5_000, 30*time.Minute)
	}

	client := telegram.NewClient(config.TelegramToken)
	if config.TelegramHost != "" {
		client.Host = config.TelegramHost
	}

	eng := &engine.Engine{
		Logger: logger,
		Store:  st,
		API:    client,
		Shield: &shield.Gate{
			Logger: logger,
			Store:  st,
			CAS:    shield.NewCASClient(),
		},
		Cache:     cache,
		Actions:   actions.DefaultActions(),
		Commands:  commands.DefaultCommands(),
		Callbacks: commands.DefaultCallbacks(),
		SelfID:    client.SelfID(),
	}

	s := &Server{
		logger: logger,
		client: client,
		engine: eng,
		secret: config.WebhookSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.GET("/_health", s.handleHealthCheck)
	e.POST("/telegram/webhook", s.handleWebhook)
	s.echo = e

	return s, nil
}

// RegisterCommands publishes the command table to the platform and fills in
// the bot's username, which command dispatch needs to filter "/cmd@other_bot".
func (s *Server) RegisterCommands(ctx context.Context) error {
	me, err := s.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("fetching bot identity: %w", err)
	}
	s.engine.Username = me.Username
	s.engine.SelfID = me.ID

	return s.client.SetMyCommands(ctx, s.engine.Commands.BotCommands())
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(200, map[string]any{"status": "ok"})
}

// handleWebhook accepts one raw update per request. Processing happens in a
// goroutine and the response is always 200: a processing failure must not
// make Telegram re-deliver the update.
func (s *Server) handleWebhook(c echo.Context) error {
	if s.secret != "" && c.Request().Header.Get("X-Telegram-Bot-Api-Secret-Token") != s.secret {
		return c.NoContent(http.StatusUnauthorized)
	}

	var upd telegram.Update
	if err := c.Bind(&upd); err != nil {
		updatesFailed.Inc()
		return c.NoContent(http.StatusBadRequest)
	}
	updatesReceived.Inc()

	go func() {
		if err := s.engine.ProcessUpdate(context.Background(), &upd); err != nil {
			updatesFailed.Inc()
		}
	}()
	return c.NoContent(http.StatusOK)
}

func (s *Server) Run(ctx context.Context, listen string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}
