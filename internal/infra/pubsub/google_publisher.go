package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"shop/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// messageSender is the slice of *pubsub.Publisher the order publisher needs.
// Messages carry the order id as ordering key, so a failed send pauses that key
// until resume is called.
type messageSender interface {
	send(ctx context.Context, msg *pubsub.Message) (string, error)
	resume(orderingKey string)
	stop()
}

type topicSender struct {
	publisher *pubsub.Publisher
}

func (s topicSender) send(ctx context.Context, msg *pubsub.Message) (string, error) {
	return s.publisher.Publish(ctx, msg).Get(ctx)
}

func (s topicSender) resume(orderingKey string) {
	s.publisher.ResumePublish(orderingKey)
}

func (s topicSender) stop() {
	s.publisher.Stop()
}

// googlePublisher sends order events to a Cloud Pub/Sub topic, ordered per order.
type googlePublisher struct {
	client *pubsub.Client
	sender messageSender
	logger *slog.Logger
}

// NewGooglePubSubPublisher connects to projectID and checks that topicID exists
// before handing out a publisher for it.
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pubsub client")
	}

	topic := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topic}); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "topic %s is not reachable", topic)
	}

	publisher := client.Publisher(topicID)
	publisher.EnableMessageOrdering = true

	logger.Info("Order events go to Cloud Pub/Sub", slog.String("topic", topic))

	return &googlePublisher{
		client: client,
		sender: topicSender{publisher: publisher},
		logger: logger,
	}, nil
}

func (p *googlePublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode order event")
	}

	msg := &pubsub.Message{
		Data:        data,
		Attributes:  eventAttributes(event),
		OrderingKey: event.OrderID,
	}

	serverID, err := p.sender.send(ctx, msg)
	if err != nil {
		// Later events of this order would be rejected until the key is resumed.
		p.sender.resume(msg.OrderingKey)

		return errors.Wrapf(err, "failed to publish %s for order %s", event.Type, event.OrderID)
	}

	p.logger.DebugContext(ctx, "Order event sent to Cloud Pub/Sub",
		slog.String("type", string(event.Type)),
		slog.String("orderID", event.OrderID),
		slog.String("messageID", serverID),
	)

	return nil
}

func (p *googlePublisher) Close() error {
	if p.sender != nil {
		p.sender.stop()
	}
	if p.client == nil {
		return nil
	}

	return errors.WithStack(p.client.Close())
}
