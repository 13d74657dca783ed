package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aprayoga/storefront/internal/common"
	"github.com/aprayoga/storefront/internal/log"
	"github.com/aprayoga/storefront/internal/notification/mail"
	inOtel "github.com/aprayoga/storefront/internal/otel"
	"github.com/aprayoga/storefront/order/pkg/response"
)

// Worker consumes order-created events and mails confirmations. Delivery is
// best-effort: a failed send is logged and the event dropped, it never blocks
// or retries into the checkout path.
type Worker struct {
	cache  *redis.Client
	mailer mail.Mailer
}

func NewWorker(cache *redis.Client, mailer mail.Mailer) Worker {
	return Worker{cache: cache, mailer: mailer}
}

// Run subscribes to the order-created channel and processes events until the
// context is cancelled.
func (w Worker) Run(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Worker Run").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "subscribing").Logger()
	logger.Info().Msgf("subscribing to channel=%s", common.ChannelOrderCreated)
	pubsub := w.cache.Subscribe(c, common.ChannelOrderCreated)
	defer pubsub.Close()

	if _, err := pubsub.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing to channel=%s with error=%w", common.ChannelOrderCreated, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("context cancelled, stopping")
			return c.Err()
		case message, ok := <-messages:
			if !ok {
				return errors.New("subscription channel closed")
			}
			w.handle(c, message.Payload)
		}
	}
}

func (w Worker) handle(c context.Context, payload string) {
	c, span := inOtel.Tracer.Start(c, "Worker handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Worker handle").
		Str(log.KeyProcess, "handling order created").
		Logger()

	order := response.Order{}
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		err = fmt.Errorf("failed unmarshaling payload with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger = logger.With().
		Str(log.KeyOrderCode, order.Code).
		Str(log.KeyEmail, order.CustomerEmail).
		Logger()

	logger.Info().Msg("sending order received mail")
	if err := w.mailer.SendOrderReceived(order); err != nil {
		err = fmt.Errorf("failed sending order received mail with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("sent order received mail")
}
