// Package flowevents announces cancellation flow state changes. Publishing is
// fire-and-forget: failures are logged and never reach the caller.
package flowevents

import (
	"context"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/pkg/logger"
	"cancel-flow-be/pkg/events"

	"github.com/google/uuid"
)

const (
	TypeCancellationStarted       = "CANCELLATION_STARTED"
	TypeDownsellAccepted          = "DOWNSELL_ACCEPTED"
	TypeDownsellDeclined          = "DOWNSELL_DECLINED"
	TypeSubscriptionStatusChanged = "SUBSCRIPTION_STATUS_CHANGED"
)

const logModule = "FLOW_EVENTS"

type Publisher interface {
	PublishCancellationStarted(ctx context.Context, cancellation *entity.Cancellation)
	PublishDownsellAccepted(ctx context.Context, cancellation *entity.Cancellation, monthlyPrice, offerPrice int)
	PublishDownsellDeclined(ctx context.Context, cancellation *entity.Cancellation)
	PublishStatusChanged(ctx context.Context, subscriptionId, userId uuid.UUID, from, to entity.SubscriptionStatus)
}

type publisher struct {
	sink   events.Publisher
	logger logger.ILogger
}

// NewPublisher wraps sink, usually the in-process bus. A nil sink makes every
// call a no-op.
func NewPublisher(sink events.Publisher, logger logger.ILogger) Publisher {
	return &publisher{sink: sink, logger: logger}
}

func (p *publisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sink == nil {
		return
	}
	evt := events.NewEvent(eventType, data)
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error(logModule, "Failed to publish "+eventType+" event", map[string]interface{}{
			"error":    err.Error(),
			"event_id": evt.Id,
		})
	}
}

func cancellationData(c *entity.Cancellation) map[string]interface{} {
	return map[string]interface{}{
		"cancellation_id":  c.Id.String(),
		"subscription_id":  c.SubscriptionId.String(),
		"user_id":          c.UserId.String(),
		"downsell_variant": string(c.DownsellVariant),
	}
}

func (p *publisher) PublishCancellationStarted(ctx context.Context, cancellation *entity.Cancellation) {
	p.publish(ctx, TypeCancellationStarted, cancellationData(cancellation))
}

func (p *publisher) PublishDownsellAccepted(ctx context.Context, cancellation *entity.Cancellation, monthlyPrice, offerPrice int) {
	data := cancellationData(cancellation)
	data["monthly_price"] = monthlyPrice
	data["offer_price"] = offerPrice
	p.publish(ctx, TypeDownsellAccepted, data)
}

func (p *publisher) PublishDownsellDeclined(ctx context.Context, cancellation *entity.Cancellation) {
	p.publish(ctx, TypeDownsellDeclined, cancellationData(cancellation))
}

func (p *publisher) PublishStatusChanged(ctx context.Context, subscriptionId, userId uuid.UUID, from, to entity.SubscriptionStatus) {
	p.publish(ctx, TypeSubscriptionStatusChanged, map[string]interface{}{
		"subscription_id": subscriptionId.String(),
		"user_id":         userId.String(),
		"from":            string(from),
		"to":              string(to),
	})
}
