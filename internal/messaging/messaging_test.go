package messaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-storefront/internal/logger"
)

type ackRecorder struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

func newTestConsumer(buf *bytes.Buffer) *Consumer {
	return NewConsumer(nil, logger.NewWithWriter("test", buf, "debug"), QueueStatusUpdates, "test", 1)
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantAck     int
		wantNack    int
		wantRequeue bool
	}{
		{"success acks", nil, 1, 0, false},
		{"transient failure requeues", errors.New("redis down"), 0, 1, true},
		{"permanent failure drops", fmt.Errorf("bad status: %w", ErrPermanent), 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := newTestConsumer(&buf)
			ack := &ackRecorder{}

			c.processMessage(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: []byte("{}")},
				func(context.Context, []byte) error { return tt.handlerErr })

			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, tt.wantNack, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
			if tt.handlerErr != nil {
				assert.Contains(t, buf.String(), "message_processing_failed")
			}
		})
	}
}

func TestParseMessage(t *testing.T) {
	var v struct {
		OrderNumber string `json:"order_number"`
	}
	require.NoError(t, ParseMessage([]byte(`{"order_number":"ORD_1"}`), &v))
	assert.Equal(t, "ORD_1", v.OrderNumber)

	err := ParseMessage([]byte(`{`), &v)
	assert.ErrorIs(t, err, ErrPermanent)
}

type recordedBinding struct {
	queue, key, exchange string
}

type fakeDeclarer struct {
	exchanges map[string]string
	queues    []string
	bindings  []recordedBinding
}

func (f *fakeDeclarer) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp091.Table) error {
	f.exchanges[name] = kind
	return nil
}

func (f *fakeDeclarer) QueueDeclare(name string, _, _, _, _ bool, _ amqp091.Table) (amqp091.Queue, error) {
	f.queues = append(f.queues, name)
	return amqp091.Queue{Name: name}, nil
}

func (f *fakeDeclarer) QueueBind(name, key, exchange string, _ bool, _ amqp091.Table) error {
	f.bindings = append(f.bindings, recordedBinding{name, key, exchange})
	return nil
}

func TestSetupTopology(t *testing.T) {
	f := &fakeDeclarer{exchanges: map[string]string{}}
	require.NoError(t, setupTopology(f))

	assert.Equal(t, map[string]string{ExchangeOrders: "topic", ExchangeNotifications: "fanout"}, f.exchanges)
	assert.ElementsMatch(t, []string{QueuePlacedOrders, QueueStatusUpdates}, f.queues)
	assert.Contains(t, f.bindings, recordedBinding{QueueStatusUpdates, "", ExchangeNotifications})
	assert.Contains(t, f.bindings, recordedBinding{QueuePlacedOrders, "orders.placed.*", ExchangeOrders})
}
