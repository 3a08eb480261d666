package consumer

import (
	"context"
	"encoding/json"
	e "errors"
	"sync"

	"github.com/google/uuid"
	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/internal/rabbitmq/channel"
	"github.com/mini-maxit/anticheat/internal/rabbitmq/responder"
	"github.com/mini-maxit/anticheat/internal/services"
	"github.com/mini-maxit/anticheat/pkg/constants"
	"github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/pkg/messages"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type Consumer interface {
	// Listen consumes the worker queue until ctx is cancelled or the delivery channel closes.
	// It returns after every in-flight message was answered.
	Listen(ctx context.Context) error
}

type consumer struct {
	channel           channel.Channel
	workerQueueName   string
	responseQueueName string
	maxWorkers        int
	slots             *semaphore.Weighted
	service           services.DetectionService
	responder         responder.Responder
	logger            *zap.SugaredLogger
}

func NewConsumer(
	mainChannel channel.Channel,
	workerQueueName string,
	responseQueueName string,
	maxWorkers int,
	service services.DetectionService,
	responder responder.Responder,
) Consumer {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &consumer{
		channel:           mainChannel,
		workerQueueName:   workerQueueName,
		responseQueueName: responseQueueName,
		maxWorkers:        maxWorkers,
		slots:             semaphore.NewWeighted(int64(maxWorkers)),
		service:           service,
		responder:         responder,
		logger:            logger.NewNamedLogger("consumer"),
	}
}

func (c *consumer) Listen(ctx context.Context) error {
	c.logger.Infof("Declaring queue %s", c.workerQueueName)

	args := make(amqp.Table)
	args["x-max-priority"] = constants.RabbitMQMaxPriority
	_, err := c.channel.QueueDeclare(c.workerQueueName, true, false, false, false, args)
	if err != nil {
		c.logger.Errorf("Failed to declare queue %s: %s", c.workerQueueName, err)
		return err
	}

	if err := c.channel.Qos(c.maxWorkers, 0, false); err != nil {
		c.logger.Errorf("Failed to set prefetch count: %s", err)
		return err
	}

	consumerTag := "anticheat-" + uuid.NewString()
	msgs, err := c.channel.Consume(c.workerQueueName, consumerTag, false, false, false, false, nil)
	if err != nil {
		c.logger.Errorf("Failed to consume messages from queue %s: %s", c.workerQueueName, err)
		return err
	}

	c.logger.Infof("Listening for messages on queue %s as %s", c.workerQueueName, consumerTag)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping consumer")
			if err := c.channel.Cancel(consumerTag, false); err != nil {
				c.logger.Warnf("Failed to cancel consumer %s: %s", consumerTag, err)
			}
			return nil
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Warn("Delivery channel closed")
				return nil
			}
			if err := c.slots.Acquire(ctx, 1); err != nil {
				// Not acknowledged, so the broker redelivers it.
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer c.slots.Release(1)
				c.processMessage(msg)
				if err := msg.Ack(false); err != nil {
					c.logger.Debugf("Failed to ack message: %s", err)
				}
			}()
		}
	}
}

func (c *consumer) responseQueue(replyTo string) string {
	if replyTo != "" {
		return replyTo
	}
	return c.responseQueueName
}

func (c *consumer) processMessage(msg amqp.Delivery) {
	responseQueue := c.responseQueue(msg.ReplyTo)

	var queueMessage messages.QueueMessage
	err := json.Unmarshal(msg.Body, &queueMessage)
	if err != nil {
		c.logger.Errorf("Failed to unmarshal message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
		return
	}

	switch queueMessage.Type {
	case constants.QueueMessageTypePlagiarism:
		c.logger.Infof("Received plagiarism message: %s", queueMessage.MessageID)
		c.handlePlagiarismMessage(queueMessage, responseQueue)
	case constants.QueueMessageTypeHandshake:
		c.logger.Infof("Received handshake message: %s", queueMessage.MessageID)
		c.handleHandshakeMessage(queueMessage, responseQueue)
	default:
		c.logger.Errorf("Unknown message type: %s", queueMessage.Type)
		c.responder.PublishErrorToResponseQueue(
			queueMessage.Type,
			queueMessage.MessageID,
			responseQueue,
			errors.ErrUnknownMessageType)
	}
}

func (c *consumer) handlePlagiarismMessage(queueMessage messages.QueueMessage, responseQueue string) {
	var task messages.PlagiarismTaskMessage
	if err := json.Unmarshal(queueMessage.Payload, &task); err != nil {
		c.logger.Errorf("Failed to unmarshal plagiarism message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
		return
	}

	result, err := c.service.Detect(&task)
	if err != nil {
		if e.Is(err, errors.ErrInvalidSubmission) {
			c.logger.Infof("Rejected submission in %s: %s", queueMessage.MessageID, err)
		} else {
			c.logger.Errorf("Failed to process plagiarism message %s: %s", queueMessage.MessageID, err)
		}
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
		return
	}

	err = c.responder.PublishPlagiarismRespond(queueMessage.Type, queueMessage.MessageID, responseQueue, result)
	if err != nil {
		c.logger.Errorf("Failed to publish plagiarism result: %s", err)
	}
}

func (c *consumer) handleHandshakeMessage(queueMessage messages.QueueMessage, responseQueue string) {
	payload := messages.ResponseHandshakePayload{
		Languages: c.service.SupportedLanguages(),
		Visitors:  c.service.Visitors(),
	}

	err := c.responder.PublishSuccessHandshakeRespond(queueMessage.Type, queueMessage.MessageID, responseQueue, payload)
	if err != nil {
		c.logger.Errorf("Failed to publish supported languages: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, responseQueue, err)
	}
}
