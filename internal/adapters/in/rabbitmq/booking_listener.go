package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/availability-booking-engine/internal/config"
	"github.com/suchimauz/availability-booking-engine/internal/core/domain"
	"github.com/suchimauz/availability-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/availability-booking-engine/internal/core/services/availability_service"
)

// BookingEventsUseCase - часть хранилища, которую двигают события бронирований
type BookingEventsUseCase interface {
	MarkSlotBooked(ctx context.Context, id int64, booking domain.AvailabilityBooking) bool
	MarkSlotAvailable(ctx context.Context, id int64) bool
	InvalidateSlots(ctx context.Context)
}

type BookingEventType string

const (
	BookingEventCreated    BookingEventType = "booking.created"
	BookingEventCancelled  BookingEventType = "booking.cancelled"
	BookingEventInvalidate BookingEventType = "slots.invalidate"
)

// BookingEventMessage - тело события. Для slots.invalidate поля не нужны.
type BookingEventMessage struct {
	AvailabilityID int64              `json:"availabilityId"`
	Booking        *domain.RawBooking `json:"booking,omitempty"`
}

type BookingListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase BookingEventsUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewBookingListener(useCase BookingEventsUseCase, cfg *config.Config, logger out.LoggerPort) (*BookingListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &BookingListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *BookingListener) Start(ctx context.Context) error {
	err := l.channel.ExchangeDeclare(
		l.cfg.RabbitMQ.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMQ.BindingKey,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go l.consume(ctx, msgs)

	l.logger.Info("booking.queue.started", out.LogFields{
		"queue":      queue.Name,
		"exchange":   l.cfg.RabbitMQ.Exchange,
		"bindingKey": l.cfg.RabbitMQ.BindingKey,
	})
	return nil
}

func (l *BookingListener) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				l.logger.Warn("booking.queue.closed", nil)
				return
			}
			if err := l.handleMessage(ctx, msg.RoutingKey, msg.Body); err != nil {
				l.logger.Error("booking.message.failed", out.LogFields{
					"routingKey": msg.RoutingKey,
					"error":      err.Error(),
				})
				// битое сообщение повторно не обработается, в очередь не возвращаем
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}
}

// eventType отрезает префикс источника: availability.booking.created -> booking.created
func eventType(routingKey string) BookingEventType {
	parts := strings.Split(routingKey, ".")
	if len(parts) < 2 {
		return BookingEventType(routingKey)
	}
	return BookingEventType(strings.Join(parts[len(parts)-2:], "."))
}

func (l *BookingListener) handleMessage(ctx context.Context, routingKey string, body []byte) error {
	event := eventType(routingKey)

	if event == BookingEventInvalidate {
		l.useCase.InvalidateSlots(ctx)
		l.logger.Info("booking.message.invalidated", nil)
		return nil
	}

	if event != BookingEventCreated && event != BookingEventCancelled {
		l.logger.Debug("booking.message.skipped", out.LogFields{
			"routingKey": routingKey,
		})
		return nil
	}

	var msg BookingEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to decode booking event: %v", err)
	}
	if msg.AvailabilityID == 0 && msg.Booking != nil {
		msg.AvailabilityID = msg.Booking.AvailabilityID
	}
	if msg.AvailabilityID == 0 {
		return fmt.Errorf("booking event without availabilityId")
	}

	switch event {
	case BookingEventCreated:
		if msg.Booking == nil {
			return fmt.Errorf("booking.created event without booking")
		}
		booking := availability_service.NormalizeBooking(msg.Booking, msg.AvailabilityID)
		applied := l.useCase.MarkSlotBooked(ctx, msg.AvailabilityID, *booking)

		l.logger.Info("booking.message.booked", out.LogFields{
			"availabilityId": msg.AvailabilityID,
			"bookingId":      booking.ID,
			"applied":        applied,
		})
	case BookingEventCancelled:
		applied := l.useCase.MarkSlotAvailable(ctx, msg.AvailabilityID)

		l.logger.Info("booking.message.cancelled", out.LogFields{
			"availabilityId": msg.AvailabilityID,
			"applied":        applied,
		})
	}

	return nil
}

func (l *BookingListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
