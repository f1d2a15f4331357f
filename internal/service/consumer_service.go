package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"team-knowledge-be/internal/dto"
	"team-knowledge-be/internal/entity"
	"team-knowledge-be/internal/repository/unitofwork"
	"team-knowledge-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the activity topic: each message becomes a persisted
// feed entry plus a websocket broadcast.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	hub        *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		hub:        hub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishActivityMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal activity message: %v", err)
		msg.Ack() // invalid payloads would retry forever
		return
	}

	activity := entity.Activity{
		Id:            uuid.New(),
		Type:          payload.Type,
		DocumentId:    payload.DocumentId,
		DocumentTitle: payload.DocumentTitle,
		UserId:        payload.UserId,
		CreatedAt:     time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ActivityRepository().Create(ctx, &activity); err != nil {
		log.Printf("[ERROR] Failed to persist activity %s for document %s: %v", payload.Type, payload.DocumentId, err)
		msg.Nack()
		return
	}

	if cs.hub != nil {
		cs.hub.BroadcastActivity(dto.ActivityResponse{
			Id:            activity.Id,
			Type:          activity.Type,
			DocumentId:    activity.DocumentId,
			DocumentTitle: activity.DocumentTitle,
			UserId:        activity.UserId,
			CreatedAt:     activity.CreatedAt,
		})
	}

	msg.Ack()
}
