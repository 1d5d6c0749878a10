package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mariia-hub-be/internal/dto"
	"mariia-hub-be/internal/repository/specification"
	"mariia-hub-be/internal/repository/unitofwork"
	"mariia-hub-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
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

// processMessage refreshes the embedding of one document. Messages arrive one
// per document so the embedding provider never sees a burst.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReindexMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Reindexing document: %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[WARN] Document not found, skipping reindex: %s", payload.DocumentId)
		msg.Ack() // Deleted since scheduling? Ack.
		return
	}

	res, err := cs.embeddingProvider.Generate(doc.Content, embedDocumentTaskType)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	doc.Embedding = res.Embedding.Values
	now := time.Now()
	doc.UpdatedAt = &now

	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to store refreshed embedding for %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document reindexed: %s", payload.DocumentId)
	msg.Ack()
}
