package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// AMQPPublisher sends session status updates to a topic exchange with the
// routing key session.<id>.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

func NewAMQPPublisher(conn *amqp.Connection, exchange string) *AMQPPublisher {
	return &AMQPPublisher{conn: conn, exchange: exchange}
}

func (p *AMQPPublisher) Publish(_ context.Context, update StatusUpdate) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal status update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		routingKey(update),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   update.Timestamp,
			Body:        body,
		},
	)
}

func routingKey(update StatusUpdate) string {
	return fmt.Sprintf("session.%s", update.SessionID)
}
