package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler return nil hanya jika proses sukses & offset boleh di-commit.
type Handler func(ctx context.Context, m kafka.Message) error

type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r       fetcher
	workers int
	// Attempts per message before it is logged and committed anyway.
	Attempts int
	Backoff  time.Duration
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return newConsumer(r, workers)
}

func newConsumer(r fetcher, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, workers: workers, Attempts: 5, Backoff: 200 * time.Millisecond}
}

// Start blocks until ctx is done or the reader fails. In-flight messages finish before it returns.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				c.process(ctx, h, m)
			}
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

// process retries h with linear backoff. A message that keeps failing is committed
// so the partition does not stall; the handler is expected to be idempotent.
func (c *Consumer) process(ctx context.Context, h Handler, m kafka.Message) {
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = h(ctx, m); err == nil {
			break
		}
		log.Printf("kafka handler topic=%s partition=%d offset=%d attempt=%d: %v", m.Topic, m.Partition, m.Offset, i, err)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return // tidak di-commit, akan dikirim ulang setelah restart
		case <-time.After(time.Duration(i) * c.Backoff):
		}
	}
	if err != nil {
		log.Printf("kafka giving up topic=%s partition=%d offset=%d", m.Topic, m.Partition, m.Offset)
	}
	if err := c.r.CommitMessages(context.Background(), m); err != nil {
		log.Printf("kafka commit offset=%d: %v", m.Offset, err)
	}
}
