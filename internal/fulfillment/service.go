package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

// Service consumes order.paid and hands paid orders over to fulfillment.
type Service struct {
	Redis       *redis.Client
	ServiceName string
	// Ship dipanggil sekali per order yang sudah dibayar. Default: hanya log.
	Ship func(ctx context.Context, p orders.OrderPaidPayload) error
}

// HandleOrderPaid dipasang sebagai handler consumer.
func (s *Service) HandleOrderPaid(ctx context.Context, m kafkago.Message) error {
	// header cukup untuk skip event lain tanpa decode
	if t := kafkax.HeaderValue(m, kafkax.HeaderEventType); t != "" && t != orders.EventOrderPaid {
		return nil
	}

	// 1) decode envelope
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPaid {
		return nil
	} // ignore

	// 2) dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	// 3) decode payload
	p, err := kafkax.UnwrapPayload[orders.OrderPaidPayload](env.Payload)
	if err != nil {
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}

	if err := orders.CacheStatus(ctx, s.Redis, orders.StatusView{
		SessionID:   p.SessionID,
		Status:      orders.StatusPaid,
		AmountTotal: p.AmountTotal,
		Currency:    p.Currency,
	}); err != nil {
		log.Printf("[fulfillment] cache status session=%s: %v", p.SessionID, err)
	}

	ship := s.Ship
	if ship == nil {
		ship = logShipment
	}
	if err := ship(ctx, p); err != nil {
		// lepas dedup supaya redelivery bisa mencoba lagi
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

func logShipment(ctx context.Context, p orders.OrderPaidPayload) error {
	log.Printf("[fulfillment] order=%d session=%s amount=%d %s lines=%d",
		p.OrderID, p.SessionID, p.AmountTotal, p.Currency, len(p.Items))
	for _, it := range p.Items {
		log.Printf("[fulfillment]   product=%d qty=%d", it.ProductID, it.Qty)
	}
	return nil
}
