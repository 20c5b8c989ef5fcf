package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitAlerter publishes low-stock alert payloads to a RabbitMQ topic
// exchange, where the out-of-scope push-notification workers pick them up.
type RabbitAlerter struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	directory AdminDirectory
}

// NewRabbitAlerter dials the broker and declares the alert exchange.
func NewRabbitAlerter(url string, directory AdminDirectory) (*RabbitAlerter, error) {
	var conn *amqp.Connection
	var err error

	// Retry connection up to 5 times with exponential backoff
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		retryTime := time.Duration(i*i)*time.Second + time.Second
		log.Printf("Failed to connect to RabbitMQ, retrying in %v: %v", retryTime, err)
		time.Sleep(retryTime)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		AlertExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Println("Successfully connected to RabbitMQ")
	return &RabbitAlerter{conn: conn, channel: channel, directory: directory}, nil
}

// Notify publishes the alert payload when at least one admin holds an
// active subscription. No subscribed admin is a no-op, not an error.
func (a *RabbitAlerter) Notify(ctx context.Context, productID string, stock int) error {
	admins, err := a.directory.SubscribedAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up subscribed admins: %w", err)
	}
	if len(admins) == 0 {
		log.Printf("No subscribed admin for low stock alert on product %s", productID)
		return nil
	}

	body, err := json.Marshal(lowStockPayload(productID, stock))
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	err = a.channel.PublishWithContext(
		ctx,
		AlertExchange,
		LowStockRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.NewString(),
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (a *RabbitAlerter) Close() error {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
