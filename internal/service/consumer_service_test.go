package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type channelMailer struct {
	sent chan string
}

func (m *channelMailer) SendOTP(toEmail, otp string) error        { return nil }
func (m *channelMailer) SendResetToken(toEmail, token string) error { return nil }

func (m *channelMailer) SendGenerationComplete(toEmail, projectId, imageURL string) error {
	m.sent <- toEmail
	return nil
}

func TestConsumerSendsCompletionEmail(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	factory := newFakeFactory()
	user := &entity.User{
		Id:     uuid.New(),
		Email:  "user@example.com",
		Status: entity.UserStatusActive,
	}
	factory.uow.users.users[user.Id] = user

	mailer := &channelMailer{sent: make(chan string, 1)}
	publisher := NewPublisherService(pubSub, "GENERATION_COMPLETED")
	consumer := NewConsumerService(pubSub, "GENERATION_COMPLETED", factory, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.Consume(ctx); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	payload, _ := json.Marshal(dto.GenerationCompletedMessage{
		ProjectId: uuid.New(),
		UserId:    user.Id,
		OutputURL: "http://storage.local/outputs/out.jpg",
	})
	if err := publisher.Publish(ctx, payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case toEmail := <-mailer.sent:
		assert.Equal(t, user.Email, toEmail)
	case <-time.After(3 * time.Second):
		t.Fatal("completion email was never sent")
	}
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	factory := newFakeFactory()
	mailer := &channelMailer{sent: make(chan string, 1)}
	publisher := NewPublisherService(pubSub, "GENERATION_COMPLETED")
	consumer := NewConsumerService(pubSub, "GENERATION_COMPLETED", factory, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.Consume(ctx); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	if err := publisher.Publish(ctx, []byte("not-json")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case <-mailer.sent:
		t.Fatal("no email expected for a malformed payload")
	case <-time.After(200 * time.Millisecond):
		// acked and dropped
	}
}
