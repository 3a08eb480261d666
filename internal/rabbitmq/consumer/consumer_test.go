package consumer

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/anticheat/pkg/constants"
	pkgerrors "github.com/mini-maxit/anticheat/pkg/errors"
	"github.com/mini-maxit/anticheat/pkg/languages"
	"github.com/mini-maxit/anticheat/pkg/messages"
	"github.com/mini-maxit/anticheat/tests/mocks"
)

const (
	workerQueue   = "worker_queue_test"
	responseQueue = "response_queue_test"
)

func plagiarismDelivery(t *testing.T, messageID, replyTo string) amqp.Delivery {
	t.Helper()
	task := messages.PlagiarismTaskMessage{
		LanguageType: "JAVA",
		FirstSource:  "public class A {}",
		SecondSource: "public class B {}",
	}
	taskB, err := json.Marshal(&task)
	if err != nil {
		t.Fatalf("failed to marshal task: %v", err)
	}
	qm := messages.QueueMessage{Type: constants.QueueMessageTypePlagiarism, MessageID: messageID, Payload: taskB}
	b, err := json.Marshal(qm)
	if err != nil {
		t.Fatalf("failed to marshal message: %v", err)
	}
	return amqp.Delivery{Body: b, ReplyTo: replyTo}
}

func TestProcessMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockDetectionService(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	cIface := NewConsumer(nil, workerQueue, responseQueue, 2, mockService, mockResponder)
	c, ok := cIface.(*consumer)
	if !ok {
		t.Fatalf("NewConsumer returned unexpected type: %T", cIface)
	}

	t.Run("invalid json", func(t *testing.T) {
		mockResponder.EXPECT().PublishErrorToResponseQueue("", "", "reply", gomock.Any()).Times(1)

		c.processMessage(amqp.Delivery{Body: []byte("not json"), ReplyTo: "reply"})
	})

	t.Run("unknown type", func(t *testing.T) {
		qm := messages.QueueMessage{Type: "status", MessageID: "mid", Payload: nil}
		b, _ := json.Marshal(qm)

		mockResponder.EXPECT().PublishErrorToResponseQueue(
			"status", "mid", "reply", pkgerrors.ErrUnknownMessageType,
		).Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})

	t.Run("plagiarism success", func(t *testing.T) {
		result := &messages.PlagiarismResultPayload{Percentage: "0"}
		mockService.EXPECT().Detect(gomock.AssignableToTypeOf(&messages.PlagiarismTaskMessage{})).
			Do(func(task *messages.PlagiarismTaskMessage) {
				if task.LanguageType != "JAVA" || task.FirstSource != "public class A {}" {
					t.Fatalf("unexpected task: %+v", task)
				}
			}).Return(result, nil).Times(1)
		mockResponder.EXPECT().PublishPlagiarismRespond(
			constants.QueueMessageTypePlagiarism, "p-1", "reply", result,
		).Return(nil).Times(1)

		c.processMessage(plagiarismDelivery(t, "p-1", "reply"))
	})

	t.Run("plagiarism without reply to uses response queue", func(t *testing.T) {
		result := &messages.PlagiarismResultPayload{Percentage: "12.5"}
		mockService.EXPECT().Detect(gomock.Any()).Return(result, nil).Times(1)
		mockResponder.EXPECT().PublishPlagiarismRespond(
			constants.QueueMessageTypePlagiarism, "p-2", responseQueue, result,
		).Return(nil).Times(1)

		c.processMessage(plagiarismDelivery(t, "p-2", ""))
	})

	t.Run("plagiarism invalid submission", func(t *testing.T) {
		mockService.EXPECT().Detect(gomock.Any()).Return(nil, pkgerrors.ErrInvalidSubmission).Times(1)
		mockResponder.EXPECT().PublishErrorToResponseQueue(
			constants.QueueMessageTypePlagiarism, "p-3", "reply", pkgerrors.ErrInvalidSubmission,
		).Times(1)

		c.processMessage(plagiarismDelivery(t, "p-3", "reply"))
	})

	t.Run("plagiarism invalid payload", func(t *testing.T) {
		qm := messages.QueueMessage{
			Type:      constants.QueueMessageTypePlagiarism,
			MessageID: "p-4",
			Payload:   json.RawMessage(`"not an object"`),
		}
		b, _ := json.Marshal(qm)
		mockResponder.EXPECT().PublishErrorToResponseQueue(
			constants.QueueMessageTypePlagiarism, "p-4", "reply", gomock.Any(),
		).Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})

	t.Run("handshake success", func(t *testing.T) {
		qm := messages.QueueMessage{Type: constants.QueueMessageTypeHandshake, MessageID: "hs-id", Payload: nil}
		b, _ := json.Marshal(qm)

		langs := []languages.LanguageSpec{{LanguageName: "JAVA", Extension: ".java"}}
		mockService.EXPECT().SupportedLanguages().Return(langs).Times(1)
		mockService.EXPECT().Visitors().Return([]string{"sort-and-trim-lines"}).Times(1)
		mockResponder.EXPECT().PublishSuccessHandshakeRespond(
			constants.QueueMessageTypeHandshake, "hs-id", "reply", messages.ResponseHandshakePayload{
				Languages: langs,
				Visitors:  []string{"sort-and-trim-lines"},
			},
		).Return(nil).Times(1)

		c.processMessage(amqp.Delivery{Body: b, ReplyTo: "reply"})
	})
}

func TestListen_BoundsConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	mockService := mocks.NewMockDetectionService(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	const maxWorkers = 2
	const n = 6

	deliveries := make(chan amqp.Delivery, n)
	for i := 0; i < n; i++ {
		deliveries <- plagiarismDelivery(t, "m-"+string(rune('a'+i)), "reply")
	}
	close(deliveries)

	mockCh.EXPECT().QueueDeclare(workerQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{Name: workerQueue}, nil).Times(1)
	mockCh.EXPECT().Qos(maxWorkers, 0, false).Return(nil).Times(1)
	mockCh.EXPECT().Consume(workerQueue, gomock.Any(), false, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)

	var running, peak atomic.Int32
	mockService.EXPECT().Detect(gomock.Any()).DoAndReturn(
		func(*messages.PlagiarismTaskMessage) (*messages.PlagiarismResultPayload, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return &messages.PlagiarismResultPayload{Percentage: "0"}, nil
		}).Times(n)
	mockResponder.EXPECT().PublishPlagiarismRespond(
		constants.QueueMessageTypePlagiarism, gomock.Any(), "reply", gomock.Any(),
	).Return(nil).Times(n)

	c := NewConsumer(mockCh, workerQueue, responseQueue, maxWorkers, mockService, mockResponder)
	if err := c.Listen(context.Background()); err != nil {
		t.Fatalf("Listen returned error: %v", err)
	}

	if got := peak.Load(); got > maxWorkers {
		t.Fatalf("expected at most %d concurrent detections, got %d", maxWorkers, got)
	}
}

func TestListen_StopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	deliveries := make(chan amqp.Delivery)

	mockCh.EXPECT().QueueDeclare(workerQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{Name: workerQueue}, nil).Times(1)
	mockCh.EXPECT().Qos(1, 0, false).Return(nil).Times(1)
	mockCh.EXPECT().Consume(workerQueue, gomock.Any(), false, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil).Times(1)
	mockCh.EXPECT().Cancel(gomock.Any(), false).Return(nil).Times(1)

	c := NewConsumer(mockCh, workerQueue, responseQueue, 0, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Listen(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Listen returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestListen_QueueDeclareError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCh := mocks.NewMockChannel(ctrl)
	declareErr := amqp.ErrClosed
	mockCh.EXPECT().QueueDeclare(workerQueue, true, false, false, false, gomock.Any()).
		Return(amqp.Queue{}, declareErr).Times(1)

	c := NewConsumer(mockCh, workerQueue, responseQueue, 1, nil, nil)
	if err := c.Listen(context.Background()); err != declareErr {
		t.Fatalf("expected %v, got %v", declareErr, err)
	}
}
