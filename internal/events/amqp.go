package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPPublisher sends events to a durable topic exchange, routed by type.
type AMQPPublisher struct {
	url      string
	exchange string
	log      logrus.FieldLogger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, exchange string, log logrus.FieldLogger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, log: log}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connectLocked() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange %s: %w", p.exchange, err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := Marshal(e)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    e.OccurredAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.log.Warn("rabbitmq channel closed, reconnecting")
		if p.conn != nil {
			_ = p.conn.Close()
		}
		if err := p.connectLocked(); err != nil {
			return err
		}
	}

	if err := p.ch.PublishWithContext(ctx,
		p.exchange,     // exchange
		string(e.Type), // routing key
		false,          // mandatory
		false,          // immediate
		msg,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Marshal encodes e as the JSON body used on every transport.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}
