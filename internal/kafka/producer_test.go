package kafka

import (
	"context"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestProducer_FlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 16)
	p.Start(context.Background())

	for i := 0; i < 10; i++ {
		p.Publish([]byte("cs_1"), []byte("v"), EventHeaders("OrderPaid", 1)...)
	}
	p.Close()
	p.WaitClosed()

	if len(w.msgs) != 10 {
		t.Fatalf("expected 10 flushed messages, got %d", len(w.msgs))
	}
	if !w.closed {
		t.Fatal("writer should be closed")
	}
	if string(w.msgs[0].Headers[0].Value) != "OrderPaid" {
		t.Fatalf("headers lost: %+v", w.msgs[0].Headers)
	}

	// publish setelah close tidak boleh panic
	p.Publish([]byte("k"), []byte("v"))
	p.Close()
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID int64 `json:"order_id"`
	}
	got, err := UnwrapPayload[payload]([]byte(`{"order_id":42}`))
	if err != nil || got.OrderID != 42 {
		t.Fatalf("unexpected %+v %v", got, err)
	}
	if _, err := UnwrapPayload[payload]([]byte(`nope`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEventHeaders(t *testing.T) {
	m := kafka.Message{Headers: EventHeaders("OrderPaid", 1)}
	if HeaderValue(m, HeaderEventType) != "OrderPaid" || HeaderValue(m, HeaderEventVersion) != "1" {
		t.Fatalf("unexpected headers %+v", m.Headers)
	}
	if HeaderValue(m, "x-missing") != "" {
		t.Fatal("absent header should read empty")
	}
}
