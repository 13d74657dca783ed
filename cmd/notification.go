package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aprayoga/storefront/internal/common"
	"github.com/aprayoga/storefront/internal/config"
	"github.com/aprayoga/storefront/internal/infra"
	"github.com/aprayoga/storefront/internal/log"
	"github.com/aprayoga/storefront/internal/notification/mail"
	"github.com/aprayoga/storefront/internal/notification/worker"
	"github.com/aprayoga/storefront/internal/otel"
)

func runNotificationWorker(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, common.AppNotificationWorker).
		Str(log.KeyTag, "main runNotificationWorker").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, common.AppStorefront)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, common.AppNotificationWorker, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("closing cache connection")
		if err := cache.Close(); err != nil {
			logger.Error().Err(err).Msgf("failed closing cache connection with error=%s", err.Error())
			return
		}
		logger.Info().Msg("closed cache connection")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "running worker").Logger()
	logger.Info().Msg("running worker")
	c = logger.WithContext(c)
	w := worker.NewWorker(cache, mail.NewMailer(cfg.Email))
	if err := w.Run(c); err != nil && !errors.Is(err, context.Canceled) {
		err = fmt.Errorf("worker stopped with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("worker completely shutdown")
}
