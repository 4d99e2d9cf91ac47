package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// publishTimeout bounds a single publish call.
const publishTimeout = 5 * time.Second

// AMQP publishes events to a durable topic exchange. The routing key is the
// event type.
type AMQP struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQP{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (a *AMQP) Publish(ctx context.Context, event Event) error {
	publishing, err := Publishing(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// Channels are not safe for concurrent use
	a.mu.Lock()
	defer a.mu.Unlock()

	err = a.channel.PublishWithContext(
		ctx,
		a.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Debug().Str("exchange", a.exchange).Str("type", string(event.Type)).Str("budget", event.Budget()).Msg("Published event")
	return nil
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.channel != nil {
		a.channel.Close()
	}

	if a.conn != nil {
		return a.conn.Close()
	}

	return nil
}

// Publishing encodes an event as a persistent JSON message.
func Publishing(event Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	}, nil
}
