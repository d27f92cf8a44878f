package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"travelmarket/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys on the booking events topic exchange.
const (
	routingCreated        = "booking.created"
	routingStatusChanged  = "booking.status"
	routingCustomerCancel = "booking.cancelled"
)

// AMQPNotifier publishes booking events to a RabbitMQ topic exchange.
// Downstream consumers (mail, push, vendor dashboards) subscribe with
// their own queues; the API process never waits on them.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		retryIn := time.Duration(i*i)*time.Second + time.Second
		log.Printf("rabbitmq connect failed, retrying in %v: %v", retryIn, err)
		time.Sleep(retryIn)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

func (n *AMQPNotifier) publish(ctx context.Context, routingKey string, ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return n.channel.PublishWithContext(ctx,
		n.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (n *AMQPNotifier) BookingCreated(ctx context.Context, r *domain.Reservation) error {
	return n.publish(ctx, routingCreated, BookingEvent{
		Kind:          KindBookingCreated,
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		ServiceType:   r.ServiceType,
		UserID:        r.UserID,
		VendorID:      r.VendorID,
		Status:        r.Status,
		OccurredAt:    time.Now(),
	})
}

func (n *AMQPNotifier) BookingStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.BookingStatus) error {
	return n.publish(ctx, routingStatusChanged, BookingEvent{
		Kind:           KindStatusChanged,
		ReservationID:  r.ID,
		ListingID:      r.ListingID,
		ServiceType:    r.ServiceType,
		UserID:         r.UserID,
		VendorID:       r.VendorID,
		Status:         r.Status,
		PreviousStatus: previous,
		Reason:         r.CancellationReason,
		OccurredAt:     time.Now(),
	})
}

func (n *AMQPNotifier) BookingCancelledByCustomer(ctx context.Context, r *domain.Reservation, reason string) error {
	return n.publish(ctx, routingCustomerCancel, BookingEvent{
		Kind:          KindCustomerCancel,
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		ServiceType:   r.ServiceType,
		UserID:        r.UserID,
		VendorID:      r.VendorID,
		Status:        r.Status,
		Reason:        reason,
		OccurredAt:    time.Now(),
	})
}
