package main

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/queue"
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/metrics"
	"github.com/OFFIS-RIT/newsgraph/pkg/news"

	"github.com/rabbitmq/amqp091-go"
)

// worker runs ingest deliveries one at a time.
type worker struct {
	news     news.NewsClient
	graph    *graph.GraphClient
	aiClient ai.GraphAIClient
	ch       queue.Publisher
	metrics  *metrics.Registry
}

func (w *worker) handle(ctx context.Context, msg amqp091.Delivery) {
	startTime := time.Now()
	logger.Info("Received message", "queue", queue.IngestQueue)

	_, processingErr := queue.ProcessIngestMessage(ctx, w.news, w.graph, msg.Body)
	if processingErr != nil {
		logger.Error("Error processing message", "queue", queue.IngestQueue, "err", processingErr)
		target := queue.HandleProcessingError(ctx, w.ch, msg, queue.IngestQueue, processingErr)
		w.metrics.RecordJob(queue.IngestQueue, jobStatus(target))
	} else {
		if err := msg.Ack(false); err != nil {
			logger.Error("Failed to ack message", "err", err)
		}
		w.metrics.RecordJob(queue.IngestQueue, "done")
		logger.Info("Message processed successfully", "queue", queue.IngestQueue)
	}

	usage := w.aiClient.GetMetrics()
	w.metrics.RecordModelUsage(usage)
	logger.Info(
		"AI Metrics",
		"requests", usage.Requests,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"total_tokens", usage.TotalTokens,
		"duration", formatDuration(time.Duration(usage.DurationMs)*time.Millisecond),
	)
	logger.Info("Processing time", "duration", formatDuration(time.Since(startTime)))
	w.aiClient.ResetMetrics()
}

func jobStatus(target string) string {
	switch target {
	case queue.IngestQueue + "_dlq":
		return "dead"
	case queue.IngestQueue + "_retry":
		return "retried"
	default:
		return "requeued"
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
