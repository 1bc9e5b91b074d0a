// shared/amqp/publisher.go
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/streadway/amqp"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// Publisher sends JSON events to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	lggr     logger.Logger
}

// NewPublisher dials the broker, retrying until ctx expires, and declares the exchange.
func NewPublisher(ctx context.Context, url, exchange string, lggr logger.Logger) (*Publisher, error) {
	lggr = lggr.Named("amqp")

	var conn *amqp.Connection
	err := retry.Do(func() error {
		c, err := amqp.DialConfig(url, amqp.Config{
			Heartbeat: 30 * time.Second,
			Locale:    "en_US",
		})
		if err != nil {
			return err
		}
		conn = c
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnf("AMQP dial attempt %d failed: %v", attempt+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	lggr.Infof("Connected to AMQP, publishing to exchange %s", exchange)
	return &Publisher{conn: conn, channel: ch, exchange: exchange, lggr: lggr}, nil
}

// Publish marshals payload and sends it with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}
	p.lggr.Debugf("Published %s event (%d bytes)", routingKey, len(body))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.lggr.Warnf("Failed to close AMQP channel: %v", err)
	}
	return p.conn.Close()
}
