package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/pawhaus/service-boarding/internal/domain/booking"
)

const (
	// TopicBoardingEvents carries all externally observable boarding events.
	TopicBoardingEvents = "boarding.events"

	// EventBookingUpdated signals a progress update on a stay.
	EventBookingUpdated = "boarding.booking.updated"

	eventSource = "service-boarding"
)

// BookingUpdatedEvent is the payload for EventBookingUpdated. Language is
// the acting principal's language so downstream senders can localize.
type BookingUpdatedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	PetID      uuid.UUID `json:"pet_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Status     string    `json:"status"`
	Arrival    time.Time `json:"arrival"`
	Departure  time.Time `json:"departure"`
	Notes      string    `json:"notes,omitempty"`
	PhotoCount int       `json:"photo_count"`
	Language   string    `json:"language,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaNotifier publishes booking updates as CloudEvents. It satisfies the
// orchestrator's NotificationSender contract.
type KafkaNotifier struct {
	producer *Producer
	logger   *zap.Logger
}

// NewKafkaNotifier creates a new KafkaNotifier.
func NewKafkaNotifier(producer *Producer, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, logger: logger}
}

// SendBookingUpdate publishes a BookingUpdatedEvent for the stay.
func (n *KafkaNotifier) SendBookingUpdate(ctx context.Context, language string, b *bookingDomain.Booking) error {
	evt := BookingUpdatedEvent{
		BookingID:  b.ID(),
		PetID:      b.PetID(),
		OwnerID:    b.OwnerID(),
		Status:     string(b.Status()),
		Arrival:    b.Arrival(),
		Departure:  b.Departure(),
		Notes:      b.EmployeeNotes(),
		PhotoCount: len(b.Photos()),
		Language:   language,
		OccurredAt: time.Now().UTC(),
	}

	ce, err := NewCloudEvent(eventSource, EventBookingUpdated, evt)
	if err != nil {
		return err
	}
	return n.producer.PublishEvent(ctx, TopicBoardingEvents, ce)
}
