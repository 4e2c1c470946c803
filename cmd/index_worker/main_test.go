package main

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-product-catalog/internal/application"
)

type recordingAck struct {
	acked, nacked, requeued bool
}

func (r *recordingAck) Ack(uint64, bool) error { r.acked = true; return nil }
func (r *recordingAck) Nack(_ uint64, _ bool, requeue bool) error {
	r.nacked, r.requeued = true, requeue
	return nil
}
func (r *recordingAck) Reject(_ uint64, requeue bool) error {
	r.nacked, r.requeued = true, requeue
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHandle_DropsMalformed(t *testing.T) {
	for _, body := range []string{"{", `{"type":"product.created","product":{}}`} {
		ack := &recordingAck{}
		handle(context.Background(), application.NewProductIndexer(nil, "", nil), quietLogger(), amqp.Delivery{Acknowledger: ack, Body: []byte(body)})
		assert.True(t, ack.nacked, body)
		assert.False(t, ack.requeued, body)
		assert.False(t, ack.acked, body)
	}
}

func TestHandle_AcksApplied(t *testing.T) {
	body, err := json.Marshal(application.ProductEvent{
		Type:    application.ProductCreated,
		Product: application.ProductDTO{ID: "9d2f3a4b-0003-4c81-9d3a-000000000001", Name: "Chicken Waffle"},
	})
	require.NoError(t, err)

	ack := &recordingAck{}
	handle(context.Background(), application.NewProductIndexer(nil, "", nil), quietLogger(), amqp.Delivery{Acknowledger: ack, Body: body})
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}
