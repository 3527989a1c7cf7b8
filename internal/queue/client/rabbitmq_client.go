package client

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/husd-protocol/settlement-api-service/internal/utils"
)

const (
	dialAttempts      = 5
	dialRetryInterval = 2 * time.Second
)

type RabbitMqClient struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	mu         sync.Mutex
	deliveries map[string]amqp.Delivery
}

func NewRabbitMqClient(queueUrl, user, password, queueName string) (*RabbitMqClient, error) {
	amqpURI := fmt.Sprintf("amqp://%s:%s@%s", user, password, queueUrl)

	// The broker may still be starting when the service comes up.
	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err = amqp.Dial(amqpURI)
		if err == nil {
			break
		}
		if attempt < dialAttempts {
			utils.Sleep(dialRetryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &RabbitMqClient{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		deliveries: make(map[string]amqp.Delivery),
	}, nil
}

func (c *RabbitMqClient) SendMessage(ctx context.Context, messageBody string) error {
	return c.channel.PublishWithContext(
		ctx,
		"", // default exchange
		c.queueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(messageBody),
		},
	)
}

// ReceiveMessages starts consuming with manual acknowledgement. Messages stay
// un-acked until DeleteMessage is called with the receipt, so a crashed consumer
// gets them redelivered.
func (c *RabbitMqClient) ReceiveMessages() (<-chan QueueMessage, error) {
	deliveries, err := c.channel.Consume(
		c.queueName,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from queue %s: %w", c.queueName, err)
	}

	messages := make(chan QueueMessage)
	go func() {
		defer close(messages)
		for d := range deliveries {
			receipt := strconv.FormatUint(d.DeliveryTag, 10)
			c.mu.Lock()
			c.deliveries[receipt] = d
			c.mu.Unlock()
			messages <- QueueMessage{
				Body:    string(d.Body),
				Receipt: receipt,
			}
		}
	}()
	return messages, nil
}

func (c *RabbitMqClient) DeleteMessage(receipt string) error {
	c.mu.Lock()
	delivery, found := c.deliveries[receipt]
	if found {
		delete(c.deliveries, receipt)
	}
	c.mu.Unlock()
	if !found {
		return fmt.Errorf("unknown message receipt: %s", receipt)
	}
	return delivery.Ack(false)
}

// ReQueueMessage nacks the delivery back onto the queue for redelivery. Used
// for transient processing failures where a later attempt may succeed.
func (c *RabbitMqClient) ReQueueMessage(receipt string) error {
	c.mu.Lock()
	delivery, found := c.deliveries[receipt]
	if found {
		delete(c.deliveries, receipt)
	}
	c.mu.Unlock()
	if !found {
		return fmt.Errorf("unknown message receipt: %s", receipt)
	}
	return delivery.Nack(false, true)
}

func (c *RabbitMqClient) Ping() error {
	if c.connection.IsClosed() {
		return fmt.Errorf("rabbitmq connection for queue %s is closed", c.queueName)
	}
	if c.channel.IsClosed() {
		return fmt.Errorf("rabbitmq channel for queue %s is closed", c.queueName)
	}
	return nil
}

func (c *RabbitMqClient) Stop() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.connection.Close()
}

func (c *RabbitMqClient) GetQueueName() string {
	return c.queueName
}
