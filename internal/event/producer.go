package event

import (
	"context"
	"encoding/json"
	"fmt"

	"go-jobboard-backend/internal/domain"

	"github.com/ecodeclub/mq-api"
)

const DefaultApplicationTopic = "job_application_events"

type applicationEventProducer struct {
	producer mq.Producer
}

// NewApplicationEventProducer publishes application events to topic on q.
func NewApplicationEventProducer(q mq.MQ, topic string) (domain.ApplicationEventPublisher, error) {
	if topic == "" {
		topic = DefaultApplicationTopic
	}
	p, err := q.Producer(topic)
	if err != nil {
		return nil, err
	}
	return &applicationEventProducer{producer: p}, nil
}

func (p *applicationEventProducer) Publish(ctx context.Context, evt domain.ApplicationEvent) error {
	data, err := json.Marshal(&evt)
	if err != nil {
		return fmt.Errorf("marshal application event: %w", err)
	}
	_, err = p.producer.Produce(ctx, &mq.Message{
		Key:   []byte(fmt.Sprintf("%d", evt.ApplicationID)),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("produce application event: %w", err)
	}
	return nil
}

type nopPublisher struct{}

// NewNopPublisher drops every event. Used when no broker is configured.
func NewNopPublisher() domain.ApplicationEventPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, domain.ApplicationEvent) error {
	return nil
}
