package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/arkana/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

// RecordPublisher keeps every published pack.
type RecordPublisher struct {
	mutex  sync.Mutex
	Topics []string
	Packs  []*pubsub.Pack
}

func (p *RecordPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.Topics = append(p.Topics, topic)
	p.Packs = append(p.Packs, pack)
	return nil
}
