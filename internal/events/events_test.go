package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/gometeo/tripview/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisherSendsJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev model.SearchEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.City != "Kyoto" || ev.State != model.Success || ev.PhotoCount != 6 {
			return fmt.Errorf("unexpected event %+v", ev)
		}
		return nil
	})

	p := NewPublisher(producer, "tripview_searches", discardLogger())
	err := p.Publish(context.Background(), model.SearchEvent{City: "Kyoto", State: model.Success, PhotoCount: 6})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisher(producer, "tripview_searches", discardLogger())
	err := p.Publish(context.Background(), model.SearchEvent{City: "Kyoto"})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("err = %v, want ErrOutOfBrokers", err)
	}
	p.Close()
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), model.SearchEvent{}); err != nil {
		t.Fatal(err)
	}
}

func TestTallyTop(t *testing.T) {
	tally := NewTally()
	for _, ev := range []model.SearchEvent{
		{City: "Kyoto", State: model.Success},
		{City: "kyoto", State: model.Error},
		{City: "Lima", State: model.Success},
		{City: "Oslo", State: model.Success},
		{City: "KYOTO", State: model.Success},
	} {
		tally.Add(ev)
	}

	top := tally.Top(2)
	if len(top) != 2 {
		t.Fatalf("len = %d", len(top))
	}
	if top[0].City != "Kyoto" || top[0].Searches != 3 || top[0].Successes != 2 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].City != "Lima" {
		t.Errorf("tie should break by name, got %+v", top[1])
	}
	if all := tally.Top(-1); len(all) != 3 {
		t.Errorf("Top(-1) = %d entries", len(all))
	}
}

// fakeSession и fakeClaim заменяют живую consumer group
type fakeSession struct {
	sarama.ConsumerGroupSession
	marked []int64
}

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	ch chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

func TestConsumeClaim(t *testing.T) {
	good, _ := json.Marshal(model.SearchEvent{City: "Kyoto", State: model.Success, PhotoCount: 6})

	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 3)}
	claim.ch <- &sarama.ConsumerMessage{Offset: 1, Value: good}
	claim.ch <- &sarama.ConsumerMessage{Offset: 2, Value: []byte("{not json")}
	claim.ch <- &sarama.ConsumerMessage{Offset: 3, Value: good}
	close(claim.ch)

	sess := &fakeSession{}
	tally := NewTally()
	h := NewConsumerHandler(tally, discardLogger())

	if err := h.ConsumeClaim(sess, claim); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(sess.marked) != 3 {
		t.Errorf("marked = %v, want all three offsets", sess.marked)
	}
	top := tally.Top(1)
	if len(top) != 1 || top[0].Searches != 2 {
		t.Errorf("tally = %+v", top)
	}
}
