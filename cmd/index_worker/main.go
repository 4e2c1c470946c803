package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-product-catalog/config"
	"github.com/oksasatya/go-product-catalog/internal/application"
	"github.com/oksasatya/go-product-catalog/pkg/helpers"
)

// index_worker mirrors product events from RabbitMQ into Elasticsearch.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-index-worker", cfg.Env)

	if !cfg.EventsEnabled {
		logger.Info("EVENTS_ENABLED=false; index worker disabled")
		return
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		log.Fatal("Elasticsearch not configured")
	}

	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	ctx := context.Background()
	if err := helpers.EnsureProductsIndex(ctx, es, cfg.ESProductsIndex); err != nil {
		log.Fatalf("ensure products index: %v", err)
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQProductEventsQueue, 16)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume("")
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	indexer := application.NewProductIndexer(es, cfg.ESProductsIndex, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(ctx, indexer, logger, msg)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQProductEventsQueue).Info("index worker listening")
	<-stop
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle drops malformed messages and requeues ones that failed to index.
func handle(ctx context.Context, indexer *application.ProductIndexer, logger *logrus.Logger, msg amqp.Delivery) {
	var ev application.ProductEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil || ev.Product.ID == "" {
		logger.WithField("body", string(msg.Body)).Warn("dropping malformed product event")
		_ = msg.Nack(false, false)
		return
	}

	entry := logger.WithFields(logrus.Fields{"event": ev.Type, "product_id": ev.Product.ID})
	if err := indexer.Apply(ctx, ev); err != nil {
		entry.WithError(err).Warn("index product failed, requeueing")
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
	entry.Debug("product indexed")
}
