package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartStatusChangedConsumer connects to RabbitMQ, declares the durable
// showroom.status.changed queue and consumes it, appending one line per
// event to logs/notifications.log. It stands in for the push notification
// collaborator reacting to lifecycle transitions. The function runs a
// reconnect loop with capped backoff and keeps the server operating
// through broker outages; malformed messages are rejected without requeue.
func StartStatusChangedConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("status-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeStatusChanged(conn); err != nil {
			log.Printf("status-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeStatusChanged(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("status-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(StatusChangedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(StatusChangedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range deliveries {
		var ev ShowroomStatusChangedEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("status-consumer: bad message: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		if err := appendNotificationLog(ev); err != nil {
			log.Printf("status-consumer: log write failed: %v", err)
			_ = d.Nack(false, true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendNotificationLog(ev ShowroomStatusChangedEvent) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "notifications.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s showroom=%s owner=%s action=%s %s->%s by=%s(%s)\n",
		ev.OccurredAt, ev.ShowroomID, ev.OwnerUID, ev.Action,
		ev.StatusBefore, ev.StatusAfter, ev.ActorUID, ev.ActorRole)
	_, err = f.WriteString(line)
	return err
}
