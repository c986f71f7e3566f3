// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/mailer"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the generation-completed queue and emails the
// owner. Notification failures are acked: the project is already
// completed, a lost email is not worth a redelivery loop.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
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
	var payload dto.GenerationCompletedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing completion notification for ProjectId: %s", payload.ProjectId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		log.Printf("[ERROR] Failed to get user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if user == nil {
		log.Printf("[ERROR] User not found: %s", payload.UserId)
		msg.Ack() // User deleted? Ack.
		return
	}

	if err := cs.emailService.SendGenerationComplete(user.Email, payload.ProjectId.String(), payload.OutputURL); err != nil {
		log.Printf("[ERROR] Failed to send completion email to %s: %v", user.Email, err)
		msg.Ack()
		return
	}

	log.Printf("[SUCCESS] Completion notification sent for ProjectId: %s", payload.ProjectId)
	msg.Ack()
}
