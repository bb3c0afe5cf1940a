package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

type BookingIntake interface {
	IntakeRequest(ctx context.Context, req models.IntakeRequest) (*models.Booking, error)
}

// RequestConsumer turns booking requests from external channels into
// IN_REVIEW bookings.
type RequestConsumer struct {
	intake   BookingIntake
	validate *validator.Validate
	log      *log.Entry
}

func NewRequestConsumer(intake BookingIntake) *RequestConsumer {
	return &RequestConsumer{
		intake:   intake,
		validate: validator.New(),
		log:      log.WithField("component", "request-consumer"),
	}
}

// Start handles deliveries until msgs is closed or ctx is cancelled. The
// returned channel is closed when the loop exits.
func (rc *RequestConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				rc.log.Info("context cancelled, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					rc.log.Info("channel closed, stopping consumer")
					return
				}
				rc.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

func (rc *RequestConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var req models.IntakeRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		rc.log.WithError(err).Warn("dropping malformed request")
		_ = msg.Nack(false, false)
		return
	}
	entry := rc.log.WithField("external_ref", req.ExternalRef)

	if err := rc.validate.Struct(req); err != nil {
		entry.WithError(err).Warn("dropping invalid request")
		_ = msg.Nack(false, false)
		return
	}

	booking, err := rc.intake.IntakeRequest(ctx, req)
	if err != nil {
		if permanent(err) || msg.Redelivered {
			entry.WithError(err).Error("dropping request")
			_ = msg.Nack(false, false)
			return
		}
		entry.WithError(err).Warn("failed to store request, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	entry.WithField("booking_id", booking.ID).Info("stored booking request")
	_ = msg.Ack(false)
}

// permanent errors will fail the same way on every redelivery.
func permanent(err error) bool {
	return errors.Is(err, availability.ErrInvalidRange) ||
		errors.Is(err, service.ErrHouseNotFound) ||
		errors.Is(err, service.ErrOverCapacity) ||
		errors.Is(err, service.ErrInvalidPeople)
}
