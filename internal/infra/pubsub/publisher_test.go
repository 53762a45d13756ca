package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop/config"
	"shop/internal/domain/constants"
	"shop/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrderEvent() *service.OrderEvent {
	return &service.OrderEvent{
		RequestID:   "req-1",
		Type:        service.OrderEventPlaced,
		OrderID:     "0195f3a2-0000-7000-8000-000000000001",
		MemberEmail: "user@example.com",
		TotalPrice:  100000,
		Lines: []service.OrderEventLine{
			{ItemID: "0195f3a2-0000-7000-8000-000000000002", Quantity: 10, OrderPrice: 10000},
		},
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PublishOrderEvent(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, newDiscardLogger())
	event := newOrderEvent()

	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.NotEmpty(t, received.Message.MessageID)
	assert.Equal(t, "order.placed", received.Message.Attributes["type"])
	assert.Equal(t, event.OrderID, received.Message.Attributes["order_id"])

	payload, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.OrderEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, newDiscardLogger())

	err := publisher.PublishOrderEvent(context.Background(), newOrderEvent())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-success status: 500")
}

type fakeSender struct {
	err     error
	sent    []*pubsub.Message
	resumed []string
	stopped bool
}

func (s *fakeSender) send(_ context.Context, msg *pubsub.Message) (string, error) {
	s.sent = append(s.sent, msg)
	if s.err != nil {
		return "", s.err
	}

	return "server-1", nil
}

func (s *fakeSender) resume(orderingKey string) {
	s.resumed = append(s.resumed, orderingKey)
}

func (s *fakeSender) stop() {
	s.stopped = true
}

func TestGooglePublisher_PublishOrderEvent(t *testing.T) {
	sender := &fakeSender{}
	publisher := &googlePublisher{sender: sender, logger: newDiscardLogger()}
	event := newOrderEvent()

	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, event.OrderID, msg.OrderingKey)
	assert.Equal(t, "req-1", msg.Attributes["request_id"])

	var decoded service.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, *event, decoded)
	assert.Empty(t, sender.resumed)

	require.NoError(t, publisher.Close())
	assert.True(t, sender.stopped)
}

func TestGooglePublisher_ResumesOrderingKeyAfterFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("deadline exceeded")}
	publisher := &googlePublisher{sender: sender, logger: newDiscardLogger()}
	event := newOrderEvent()

	err := publisher.PublishOrderEvent(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline exceeded")
	assert.Equal(t, []string{event.OrderID}, sender.resumed)

	// the next event of the same order goes out again
	sender.err = nil
	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))
	assert.Len(t, sender.sent, 2)
	assert.Len(t, sender.resumed, 1)
}

func TestEventAttributes_OmitsEmptyRequestID(t *testing.T) {
	event := newOrderEvent()
	event.RequestID = ""
	event.Type = service.OrderEventCancelled

	attributes := eventAttributes(event)
	assert.Equal(t, map[string]string{"type": "order.cancelled", "order_id": event.OrderID}, attributes)
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name      string
		pubsub    *config.PubSubConfig
		wantNoop  bool
		wantError string
	}{
		{name: "not configured", pubsub: nil, wantNoop: true},
		{name: "empty provider", pubsub: &config.PubSubConfig{}, wantNoop: true},
		{name: "local", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal, LocalEndpoint: "http://localhost:9999/push"}},
		{name: "local without endpoint", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal}, wantError: "local endpoint is required"},
		{name: "google without project", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}, wantError: "project ID is required"},
		{name: "google without topic", pubsub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, ProjectID: "p"}, wantError: "topic ID is required"},
		{name: "unknown provider", pubsub: &config.PubSubConfig{Provider: "kafka"}, wantError: "unknown pubsub provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.pubsub},
				Logger: newDiscardLogger(),
			})

			if tt.wantError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)

				return
			}

			require.NoError(t, err)
			_, isNoop := publisher.(*noopPublisher)
			assert.Equal(t, tt.wantNoop, isNoop)
			if isNoop {
				assert.NoError(t, publisher.PublishOrderEvent(context.Background(), newOrderEvent()))
			}
			assert.NoError(t, publisher.Close())
		})
	}
}
