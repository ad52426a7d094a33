package domain

import (
	"context"
	"encoding/json"

	"github.com/questx-lab/arkana/internal/common"
	"github.com/questx-lab/arkana/pkg/pubsub"
	"github.com/questx-lab/arkana/pkg/xcontext"
)

type EventType string

const (
	RewardCreatedEvent   EventType = "reward_created"
	TicketBoughtEvent    EventType = "ticket_bought"
	RewardFinalizedEvent EventType = "reward_finalized"
	PointsGeneratedEvent EventType = "points_generated"
)

type Event struct {
	Type      EventType `json:"type"`
	Timestamp uint64    `json:"timestamp"`
	Data      any       `json:"data"`
}

type RewardCreatedData struct {
	RewardID uint64 `json:"reward_id"`
	Title    string `json:"title"`
	Price    uint64 `json:"price"`
	EndedAt  uint64 `json:"ended_at"`
}

type TicketBoughtData struct {
	RewardID   uint64 `json:"reward_id"`
	AccountID  string `json:"account_id"`
	RangeStart uint64 `json:"range_start"`
	Amount     uint64 `json:"amount"`
}

type RewardFinalizedData struct {
	RewardID     uint64 `json:"reward_id"`
	Winner       string `json:"winner"`
	Ticket       uint64 `json:"ticket"`
	TotalTickets uint64 `json:"total_tickets"`
}

type PointsGeneratedData struct {
	ContractID string `json:"contract_id"`
	AccountID  string `json:"account_id"`
	Points     uint64 `json:"points"`
}

// publishEvent sends the event once the running operation is committed. A
// failed publish is logged and never undoes the operation.
func publishEvent(ctx context.Context, publisher pubsub.Publisher, key string, typ EventType, data any) {
	ev := Event{Type: typ, Timestamp: common.Now(ctx), Data: data}

	common.AfterCommit(ctx, func(ctx context.Context) {
		b, err := json.Marshal(ev)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", typ, err)
			return
		}

		topic := xcontext.Configs(ctx).Kafka.Topic
		err = publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot publish event %s: %v", typ, err)
		}
	})
}
