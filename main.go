package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/budgetshare/backend/internal/analytics"
	"github.com/budgetshare/backend/internal/auth"
	"github.com/budgetshare/backend/internal/config"
	v1 "github.com/budgetshare/backend/internal/controllers/v1"
	"github.com/budgetshare/backend/internal/events"
	"github.com/budgetshare/backend/internal/ledger"
	"github.com/budgetshare/backend/internal/models"
	"github.com/budgetshare/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//	@title						Budget Share
//	@version					1.0
//	@description				The backend for shared budgets
//	@license.name				AGPL-3.0-or-later
//	@license.url				https://www.gnu.org/licenses/agpl-3.0.html
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Send the token from POST /v1/sessions as "Bearer <token>"

func main() {
	if err := config.LoadDotenv(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	cfg := config.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	if cfg.DBHost != "" {
		if err := models.ConnectPostgres(cfg.PostgresDSN()); err != nil {
			log.Fatal().Msg(err.Error())
		}
	} else {
		if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
			log.Fatal().Msg(err.Error())
		}

		if err := models.Connect(cfg.SQLitePath()); err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	// Events are only published if a broker is configured
	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqp, err := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		publisher = amqp
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing events")
	}

	co := v1.Controller{
		DB:        models.DB,
		Ledger:    ledger.New(models.DB, publisher, ledger.WithInvitePatterns(cfg.InviteEmailPatterns)),
		Analytics: analytics.New(models.DB),
		Auth:      auth.New(cfg.JWTSecret, cfg.JWTTTL),
	}

	r, teardown, err := router.Config(cfg)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(cfg, co, r.Group(cfg.APIURL.Path))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Msgf("Server shutdown: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Error().Msgf("Closing event publisher: %v", err)
	}

	if err := models.Close(); err != nil {
		log.Error().Msgf("Closing database: %v", err)
	}
}
