package notify

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/fletero/fletero/internal/pkg/constants"
	"github.com/fletero/fletero/internal/pkg/logger"
	"github.com/fletero/fletero/internal/pkg/models"
	natspkg "github.com/fletero/fletero/internal/pkg/nats"
)

// Publisher is the delivery side of the hub.
type Publisher interface {
	Publish(room, event string, payload interface{})
}

// Consumer bridges the event bus to the hub: it subscribes to all trip
// subjects and hands each event to the dispatcher. Delivery is fire
// and forget; a malformed or undeliverable event is logged and
// dropped, never retried.
type Consumer struct {
	natsClient   *natspkg.Client
	dispatcher   *Dispatcher
	hub          Publisher
	subscription *nats.Subscription
}

// NewConsumer creates a notify consumer.
func NewConsumer(natsClient *natspkg.Client, dispatcher *Dispatcher, hub Publisher) *Consumer {
	return &Consumer{
		natsClient: natsClient,
		dispatcher: dispatcher,
		hub:        hub,
	}
}

// Start subscribes to the trip subject wildcard.
func (c *Consumer) Start() error {
	sub, err := c.natsClient.Subscribe(constants.SubjectTripWildcard, func(msg *nats.Msg) {
		c.handleMessage(msg.Subject, msg.Data)
	})
	if err != nil {
		return err
	}

	c.subscription = sub
	logger.Info("Notify consumer started", logger.String("subject", constants.SubjectTripWildcard))
	return nil
}

func (c *Consumer) handleMessage(subject string, data []byte) {
	var event models.TripEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Warn("Dropping malformed trip event",
			logger.String("subject", subject),
			logger.Err(err))
		return
	}

	notifications := c.dispatcher.Dispatch(&event)
	for _, n := range notifications {
		c.hub.Publish(n.Room, n.Event, n.Payload)
	}

	logger.Debug("Dispatched trip event",
		logger.String("subject", subject),
		logger.String("trip_id", event.Trip.ID.String()),
		logger.Int("notifications", len(notifications)))
}

// Stop unsubscribes from the event bus.
func (c *Consumer) Stop() {
	if c.subscription != nil {
		if err := c.subscription.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe notify consumer", logger.Err(err))
		}
		c.subscription = nil
	}
}
