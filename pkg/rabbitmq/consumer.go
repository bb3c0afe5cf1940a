package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const (
	RequestQueueName  = "booking-service.requests"
	RequestRoutingKey = "request.*"
	DeadQueueName     = "booking-service.requests.dead"
)

// Consumer reads booking requests from external channels.
type Consumer struct {
	*session
}

func NewConsumer(url string) (*Consumer, error) {
	s, err := open(url)
	if err != nil {
		return nil, err
	}
	if err := declareRequestQueues(s.channel); err != nil {
		s.Close()
		return nil, err
	}
	// One unacked request at a time keeps intake ordering per consumer.
	if err := s.channel.Qos(1, 0, false); err != nil {
		s.Close()
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}
	return &Consumer{session: s}, nil
}

func declareRequestQueues(ch *amqp.Channel) error {
	dead, err := ch.QueueDeclare(DeadQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", DeadQueueName, err)
	}
	if err := ch.QueueBind(dead.Name, "", DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", DeadQueueName, err)
	}

	q, err := ch.QueueDeclare(RequestQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": DeadLetterExchange,
	})
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", RequestQueueName, err)
	}
	if err := ch.QueueBind(q.Name, RequestRoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", RequestQueueName, err)
	}
	return nil
}

// Consume starts delivery with manual acks; the caller acks once the
// booking is stored.
func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(RequestQueueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	log.WithFields(log.Fields{
		"component":   "rabbitmq",
		"queue":       RequestQueueName,
		"dead_letter": DeadQueueName,
	}).Info("consuming booking requests")
	return msgs, nil
}
