package application

import (
	"context"
	"time"
)

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent is published after a committed catalog mutation.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	Product    ProductDTO       `json:"product"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// publish never fails the caller: the mutation is already committed.
func (s *Service) publish(ctx context.Context, typ ProductEventType, p ProductDTO) {
	if s.Events == nil {
		return
	}
	ev := ProductEvent{Type: typ, Product: p, OccurredAt: time.Now().UTC()}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Events.PublishJSON(c, ev); err != nil {
		s.log().WithError(err).WithField("product_id", p.ID).WithField("event", typ).Warn("publish product event failed")
	}
}
