package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"commerce-service/pkg/metrics"
)

// ErrMalformed marks a message that can never be processed. Such messages
// are rejected without requeue.
var ErrMalformed = errors.New("malformed message")

// Handler processes one message body.
type Handler func(ctx context.Context, body []byte) error

// Subscription binds a Handler to a queue.
type Subscription struct {
	Queue   string
	Handler Handler
}

// JSON adapts a typed handler. Bodies that do not decode into T are
// reported as ErrMalformed.
func JSON[T any](fn func(ctx context.Context, msg T) error) Handler {
	return func(ctx context.Context, body []byte) error {
		var msg T
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return fn(ctx, msg)
	}
}

type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consumer dispatches deliveries from several queues to their handlers.
type Consumer struct {
	ch       consumeChannel
	prefetch int
	log      *zap.Logger
}

// NewConsumer creates a Consumer on ch with the given prefetch count.
func NewConsumer(ch consumeChannel, prefetch int, log *zap.Logger) *Consumer {
	return &Consumer{ch: ch, prefetch: prefetch, log: log}
}

// Run consumes every subscription until ctx is cancelled or a delivery
// channel closes.
func (c *Consumer) Run(ctx context.Context, subs ...Subscription) error {
	if c.prefetch > 0 {
		if err := c.ch.Qos(c.prefetch, 0, false); err != nil {
			return fmt.Errorf("set prefetch: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sub := range subs {
		deliveries, err := c.ch.Consume(sub.Queue, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", sub.Queue, err)
		}
		c.log.Info("consuming queue", zap.String("queue", sub.Queue))

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case d, ok := <-deliveries:
					if !ok {
						if ctx.Err() != nil {
							return nil
						}
						return fmt.Errorf("delivery channel for %s closed", sub.Queue)
					}
					c.handle(ctx, sub.Queue, d, sub.Handler)
				}
			}
		})
	}
	return g.Wait()
}

// handle runs h and settles d: ack on success, reject malformed messages,
// requeue a failed message once and drop it on the second failure.
func (c *Consumer) handle(ctx context.Context, queue string, d amqp.Delivery, h Handler) {
	err := c.invoke(ctx, d.Body, h)

	log := c.log.With(zap.String("queue", queue), zap.String("message_id", d.MessageId))
	var (
		outcome   string
		settleErr error
	)
	switch {
	case err == nil:
		outcome = "ack"
		settleErr = d.Ack(false)
	case errors.Is(err, ErrMalformed):
		outcome = "rejected"
		log.Warn("rejecting malformed message", zap.Error(err))
		settleErr = d.Reject(false)
	case !d.Redelivered:
		outcome = "requeued"
		log.Warn("handler failed, requeueing message", zap.Error(err))
		settleErr = d.Nack(false, true)
	default:
		outcome = "dropped"
		log.Error("handler failed on redelivery, dropping message", zap.Error(err))
		settleErr = d.Nack(false, false)
	}

	metrics.RecordEventConsumed(queue, outcome)
	if settleErr != nil {
		log.Error("failed to settle delivery", zap.String("outcome", outcome), zap.Error(settleErr))
	}
}

func (c *Consumer) invoke(ctx context.Context, body []byte, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, body)
}
