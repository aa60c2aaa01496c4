package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/services/hub-service/internal/service"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "evse.evse_status.DEGEF", RoutingKey(service.ChangeEvent{Kind: service.KindEVSEStatus, OperatorID: "DE*GEF"}))
	assert.Equal(t, "evse.evse_data.49810", RoutingKey(service.ChangeEvent{Kind: service.KindEVSEData, OperatorID: "+49*810"}))
}

func TestNotifyPublishesEachEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "roaming.events", nil)
	at := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	err := p.Notify(context.Background(), []service.ChangeEvent{
		{Kind: service.KindEVSEStatus, OperatorID: "DE*GEF", EVSEID: "DE*GEF*E1", Type: oicp.DeltaUpdate, Status: "Occupied", At: at, Fragment: "<x/>"},
		{Kind: service.KindEVSEData, OperatorID: "DE*GEF", EVSEID: "DE*GEF*E2", Type: oicp.DeltaDelete, At: at},
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 2)

	first := ch.sent[0]
	assert.Equal(t, "roaming.events", first.exchange)
	assert.Equal(t, "evse.evse_status.DEGEF", first.key)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)
	assert.Equal(t, at, first.msg.Timestamp)

	var body map[string]any
	require.NoError(t, json.Unmarshal(first.msg.Body, &body))
	assert.Equal(t, "DE*GEF*E1", body["evse_id"])
	assert.Equal(t, "Occupied", body["status"])
	assert.NotContains(t, body, "Fragment")

	assert.Equal(t, "evse.evse_data.DEGEF", ch.sent[1].key)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNotifyReportsPublishFailure(t *testing.T) {
	p := newPublisher(&fakeChannel{err: errors.New("channel closed")}, "x", nil)
	err := p.Notify(context.Background(), []service.ChangeEvent{{Kind: service.KindEVSEStatus, OperatorID: "DE*GEF"}})
	assert.ErrorContains(t, err, "channel closed")
}
