package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// StartConsumerWorkerPool runs numWorkers consumers, each with its own
// connection and channel, and blocks until all of them stop.
func (w *Worker) StartConsumerWorkerPool(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup
	errs := make([]error, numWorkers)

	for i := range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = w.consume(ctx, i+1)
		}()
		w.logger.Info("worker started", zap.Int("worker_id", i+1))
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (w *Worker) consume(ctx context.Context, id int) error {
	conn, err := amqp.Dial(w.cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("worker %d: error dialling rabbitmq: %w", id, err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: error opening rabbitmq channel: %w", id, err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		w.cfg.Queue, // queue name
		true,        // durable (survives broker restarts)
		false,       // auto-delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("worker %d: failed to declare queue: %w", id, err)
	}

	// One unacknowledged session per consumer.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set qos: %w", id, err)
	}

	msgs, err := ch.Consume(
		w.cfg.Queue,                     // queue name
		fmt.Sprintf("resumatch-%d", id), // consumer tag
		false,                           // auto-ack
		false,                           // exclusive
		false,                           // no-local
		false,                           // no-wait
		nil,                             // arguments
	)
	if err != nil {
		return fmt.Errorf("worker %d: error consuming rabbitmq messages: %w", id, err)
	}

	log := w.logger.With(zap.Int("worker_id", id))
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			w.handleMessage(ctx, msg.Body)
			if err := msg.Ack(false); err != nil {
				log.Warn("failed to ack message", zap.Error(err))
			}
		}
	}
}
