package responder

import (
	"encoding/json"
	"sync"

	"github.com/mini-maxit/anticheat/internal/logger"
	"github.com/mini-maxit/anticheat/internal/rabbitmq/channel"
	"github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/pkg/messages"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Responder interface {
	PublishErrorToResponseQueue(
		messageType, messageID, responseQueue string,
		err error,
	)
	PublishSuccessHandshakeRespond(
		messageType, messageID, responseQueue string,
		payload messages.ResponseHandshakePayload,
	) error
	PublishPlagiarismRespond(
		messageType, messageID, responseQueue string,
		payload *messages.PlagiarismResultPayload,
	) error
	Publish(queueName string, publishing amqp.Publishing) error
	Close() error
}

type publishRequest struct {
	queueName  string
	publishing amqp.Publishing
	result     chan error
}

// responder funnels every publish through one goroutine since an AMQP channel
// must not be used concurrently.
type responder struct {
	logger   *zap.SugaredLogger
	channel  channel.Channel
	requests chan publishRequest

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

func NewResponder(channel channel.Channel, publishChanSize int) Responder {
	r := &responder{
		logger:   logger.NewNamedLogger("responder"),
		channel:  channel,
		requests: make(chan publishRequest, publishChanSize),
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go r.publishLoop()
	return r
}

func (r *responder) publishLoop() {
	defer close(r.done)
	for {
		select {
		case req := <-r.requests:
			req.result <- r.channel.Publish("", req.queueName, false, false, req.publishing)
		case <-r.closed:
			// Serve what was queued before Close.
			for {
				select {
				case req := <-r.requests:
					req.result <- r.channel.Publish("", req.queueName, false, false, req.publishing)
				default:
					return
				}
			}
		}
	}
}

// Publish blocks until the message was handed to the channel.
func (r *responder) Publish(queueName string, publishing amqp.Publishing) error {
	req := publishRequest{queueName: queueName, publishing: publishing, result: make(chan error, 1)}

	select {
	case <-r.closed:
		return errors.ErrResponderClosed
	default:
	}

	select {
	case r.requests <- req:
	case <-r.closed:
		return errors.ErrResponderClosed
	}

	select {
	case err := <-req.result:
		return err
	case <-r.done:
		// The loop may have served the request while draining.
		select {
		case err := <-req.result:
			return err
		default:
			return errors.ErrResponderClosed
		}
	}
}

func (r *responder) Close() error {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	<-r.done
	return nil
}

func (r *responder) PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error) {
	errorPayload := map[string]string{"error": err.Error()}
	payload, jsonErr := json.Marshal(errorPayload)
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal error payload: %s", jsonErr)
		return
	}

	if publishErr := r.publishRespondMessage(messageType, messageID, responseQueue, false, payload); publishErr != nil {
		r.logger.Errorf("Failed to publish error message: %s", publishErr)
		return
	}

	r.logger.Infof("Published error message to %s: %s", responseQueue, messageID)
}

func (r *responder) PublishSuccessHandshakeRespond(
	messageType, messageID, responseQueue string,
	handshake messages.ResponseHandshakePayload,
) error {
	payload, err := json.Marshal(handshake)
	if err != nil {
		return err
	}

	return r.publishRespondMessage(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishPlagiarismRespond(
	messageType, messageID, responseQueue string,
	result *messages.PlagiarismResultPayload,
) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return r.publishRespondMessage(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) publishRespondMessage(
	messageType, messageID, responseQueue string,
	ok bool,
	payload []byte,
) error {
	queueMessage := messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        ok,
		Payload:   payload,
	}

	responseJSON, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	r.logger.Debugf("Publishing response message to %s", responseQueue)
	return r.Publish(responseQueue, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          responseJSON,
	})
}
