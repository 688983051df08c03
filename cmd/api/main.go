package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payment"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.StripeWebhookSecret == "" {
		log.Println("WARNING: STRIPE_WEBHOOK_SECRET is empty, webhook signatures are NOT verified")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPaid, 1024)
	prod.Start(ctx)

	// Repos & services
	products := &catalog.Repo{DB: db}
	ledger := &orders.Repo{DB: db}
	carts := &cart.RedisStore{Redis: rdb, TTL: cfg.CartTTL}

	initiator := &checkout.Initiator{
		Carts:    carts,
		Catalog:  products,
		Gateway:  payment.NewStripe(cfg.StripeSecretKey),
		Ledger:   ledger,
		Currency: cfg.Currency,
		BaseURL:  cfg.PublicBaseURL,
	}
	reconciler := &webhook.Reconciler{
		Secret:  cfg.StripeWebhookSecret,
		Ledger:  ledger,
		Carts:   carts,
		Events:  prod,
		Redis:   rdb,
		Service: cfg.ServiceName,
	}

	router := httpx.NewRouter(cfg.CORSOrigins)
	router.Group(func(r chi.Router) {
		r.Use(httpx.Session(cfg.SessionCookie, cfg.CartTTL))
		(&httpx.StoreHandler{Products: products, Carts: &cart.Service{Store: carts, Catalog: products}}).Register(r)
		(&httpx.CheckoutHandler{Checkout: initiator}).Register(r)
	})
	(&httpx.WebhookRoute{Reconciler: reconciler}).Register(router)
	(&httpx.OrdersHandler{Orders: ledger, Redis: rdb}).Register(router)
	(&httpx.AdminHandler{Products: products, APIKey: cfg.AdminAPIKey}).Register(router)
	if cfg.AdminAPIKey == "" {
		log.Println("admin routes disabled (ADMIN_API_KEY empty)")
	}

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	prod.WaitClosed() // drain
	cancel()
}
