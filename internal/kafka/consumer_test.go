package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingEventHandler(t *testing.T) {
	var got []BookingEvent
	handler := BookingEventHandler(zap.NewNop(), func(_ context.Context, e BookingEvent) error {
		got = append(got, e)
		return nil
	})

	payload, err := json.Marshal(BookingEvent{ID: "e-1", Type: EventBookingRequested, BookingID: 9})
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, handler(ctx, kafka.Message{Value: payload}))
	assert.NoError(t, handler(ctx, kafka.Message{Value: []byte("{not json")}))
	assert.NoError(t, handler(ctx, kafka.Message{Value: []byte(`{"id":"x"}`)}))

	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].BookingID)
}

func TestBookingEventHandler_PropagatesError(t *testing.T) {
	boom := errors.New("smtp down")
	handler := BookingEventHandler(zap.NewNop(), func(context.Context, BookingEvent) error { return boom })

	err := handler(context.Background(), kafka.Message{Value: []byte(`{"type":"booking_cancelled"}`)})
	assert.ErrorIs(t, err, boom)
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(fmt.Errorf("read: %w", context.Canceled)))
	assert.False(t, IsShutdown(errors.New("broker gone")))
}

func TestConsumer_CloseNil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}
