package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OFFIS-RIT/newsgraph/internal/bootstrap"
	"github.com/OFFIS-RIT/newsgraph/internal/config"
	"github.com/OFFIS-RIT/newsgraph/internal/queue"
	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/metrics"
	"github.com/OFFIS-RIT/newsgraph/pkg/news"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.InitLogger(config.LogConfig{}, "worker")
		logger.Fatal("Invalid configuration", "err", err)
	}
	bootstrap.InitLogger(cfg.Log, "worker")
	defer logger.Close()

	aiClient, err := bootstrap.NewAIClient(cfg.AI)
	if err != nil {
		logger.Fatal("Could not create AI client", "err", err)
	}

	storage, err := bootstrap.NewGraphStorage(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("Could not open graph store", "err", err)
	}
	defer storage.Close(context.Background())

	reg := metrics.DefaultRegistry()
	graphClient, err := bootstrap.NewGraphClient(cfg, aiClient, storage, reg, false)
	if err != nil {
		logger.Fatal("Could not create graph client", "err", err)
	}

	newsClient := news.NewNewsAPIClient(news.NewNewsAPIClientParams{
		ApiKey:        cfg.News.APIKey,
		BaseURL:       cfg.News.URL,
		FetchFullText: cfg.News.FetchFullText,
	})

	// Init rabbitmq
	conn, err := queue.Init(ctx, cfg.RabbitMQ.URL(), cfg.Store.ConnectRetries)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// prefetch=1: one ingest job at a time
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := ch.Consume(
		queue.IngestQueue,
		queue.IngestQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.IngestQueue, "err", err)
	}

	w := &worker{
		news:     newsClient,
		graph:    graphClient,
		aiClient: aiClient,
		ch:       ch,
		metrics:  reg,
	}
	serveMetrics(ctx, cfg.Server.MetricsPort, reg)

	logger.Info("Listening for messages", "queue", queue.IngestQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.IngestQueue)
				return
			}
			w.handle(ctx, msg)
		}
	}
}
