package flowevents

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/pkg/logger"
	"cancel-flow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (s *recordingSink) Publish(ctx context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func testCancellation() *entity.Cancellation {
	return &entity.Cancellation{
		Id:              uuid.New(),
		UserId:          uuid.New(),
		SubscriptionId:  uuid.New(),
		DownsellVariant: entity.DownsellVariantB,
	}
}

func TestPublisherEventShapes(t *testing.T) {
	sink := &recordingSink{}
	p := NewPublisher(sink, logger.NewNopLogger())
	c := testCancellation()
	ctx := context.Background()

	p.PublishCancellationStarted(ctx, c)
	p.PublishDownsellAccepted(ctx, c, 2500, 1500)
	p.PublishDownsellDeclined(ctx, c)
	p.PublishStatusChanged(ctx, c.SubscriptionId, c.UserId, entity.SubscriptionStatusPendingCancellation, entity.SubscriptionStatusActive)

	require.Len(t, sink.events, 4)

	assert.Equal(t, TypeCancellationStarted, sink.events[0].EventType())
	assert.Equal(t, "B", sink.events[0].Payload()["downsell_variant"])

	assert.Equal(t, TypeDownsellAccepted, sink.events[1].EventType())
	assert.Equal(t, 1500, sink.events[1].Payload()["offer_price"])
	assert.Equal(t, 2500, sink.events[1].Payload()["monthly_price"])

	assert.Equal(t, TypeDownsellDeclined, sink.events[2].EventType())

	assert.Equal(t, TypeSubscriptionStatusChanged, sink.events[3].EventType())
	assert.Equal(t, "pending_cancellation", sink.events[3].Payload()["from"])
	assert.Equal(t, "active", sink.events[3].Payload()["to"])

	assert.NotEqual(t, sink.events[0].EventId(), sink.events[1].EventId())
}

func TestPublisherSwallowsSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("bus closed")}
	p := NewPublisher(sink, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishDownsellDeclined(context.Background(), testCancellation())
	})
	assert.Len(t, sink.events, 1)
}

func TestPublisherWithoutSink(t *testing.T) {
	p := NewPublisher(nil, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		p.PublishCancellationStarted(context.Background(), testCancellation())
	})
}
