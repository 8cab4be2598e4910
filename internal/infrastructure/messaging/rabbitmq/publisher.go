package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "blog.events"

	// confirmWait bounds a publish whose ctx carries no deadline.
	confirmWait = 2 * time.Second

	// startupDial bounds the first connect in NewPublisher.
	startupDial = 10 * time.Second

	heartbeat = 10 * time.Second
)

var (
	errNoRoutingKey = errors.New("rabbitmq: routing key is required")
	errNoMessageID  = errors.New("rabbitmq: message id is required")
)

// Publisher writes event envelopes to a durable topic exchange in confirm
// mode. A broken connection is dropped and redialled on the next publish.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials url and declares exchange, DefaultExchange if blank.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}

	ctx, cancel := context.WithTimeout(context.Background(), startupDial)
	defer cancel()
	conn, ch, err := p.dial(ctx)
	if err != nil {
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop()
	return nil
}

// PublishEvent sends body persistently and waits for the broker ack.
// Reconnecting and confirming both respect ctx.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	switch {
	case routingKey == "":
		return errNoRoutingKey
	case strings.TrimSpace(messageID) == "":
		return errNoMessageID
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	if err := p.ensureChannel(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Closed between ensureChannel and here.
	if p.ch == nil {
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, amqp.ErrClosed)
	}

	msg := amqp.Publishing{
		MessageId:    messageID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	dc, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err != nil {
		p.drop()
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq confirm %s: %w", routingKey, err)
	}
	if !acked {
		return fmt.Errorf("rabbitmq nack %s: delivery tag %d", routingKey, dc.DeliveryTag)
	}
	return nil
}

// ensureChannel redials when the connection is gone. The dial runs without
// mu so one slow broker does not serialize every publisher behind it.
func (p *Publisher) ensureChannel(ctx context.Context) error {
	p.mu.Lock()
	healthy := p.healthy()
	p.mu.Unlock()
	if healthy {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	conn, ch, err := p.dial(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.healthy() {
		// Another publisher reconnected first.
		_ = ch.Close()
		_ = conn.Close()
		return nil
	}
	p.drop()
	p.conn, p.ch = conn, ch
	return nil
}

// healthy reports whether conn and ch are usable. Callers hold mu.
func (p *Publisher) healthy() bool {
	return p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed()
}

// dial connects, declares the exchange and enables confirms. The TCP
// connect and the AMQP handshake are bounded by ctx; amqp clears the
// socket deadline once the connection is open.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	cfg := amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if dl, ok := ctx.Deadline(); ok {
				if err := conn.SetDeadline(dl); err != nil {
					_ = conn.Close()
					return nil, err
				}
			}
			return conn, nil
		},
	}

	conn, err := amqp.DialConfig(p.url, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err == nil {
		err = ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	}
	if err == nil {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq setup: %w", err)
	}
	return conn, ch, nil
}

// drop closes whatever is open. Callers hold mu.
func (p *Publisher) drop() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}
