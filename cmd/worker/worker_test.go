package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/newsgraph/internal/queue"
	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
	"github.com/OFFIS-RIT/newsgraph/pkg/metrics"
	"github.com/OFFIS-RIT/newsgraph/pkg/news"
	"github.com/OFFIS-RIT/newsgraph/pkg/store/memory"

	"github.com/rabbitmq/amqp091-go"
)

type stubNews struct {
	articles []common.Article
}

func (s *stubNews) FetchArticles(ctx context.Context, q news.Query) ([]common.Article, error) {
	return s.articles, nil
}

type stubAI struct {
	ai.MetricsTracker
}

func (s *stubAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	s.AddMetrics(ai.ModelMetrics{InputTokens: 10, OutputTokens: 5, TotalTokens: 15})
	if strings.Contains(prompt, "# Entities") {
		return `[{"subject":"Apple","predicate":"partnered with","object":"OpenAI"}]`, nil
	}
	return `[{"entity":"Apple","type":"ORGANIZATION"},{"entity":"OpenAI","type":"ORGANIZATION"}]`, nil
}

type sentMessage struct {
	key string
	msg amqp091.Publishing
}

type stubPublisher struct {
	sent []sentMessage
}

func (p *stubPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	p.sent = append(p.sent, sentMessage{key: key, msg: msg})
	return nil
}

type stubAcknowledger struct {
	acks, nacks int
}

func (a *stubAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acks++
	return nil
}

func (a *stubAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacks++
	return nil
}

func (a *stubAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacks++
	return nil
}

func newTestWorker(t *testing.T) (*worker, *stubPublisher) {
	t.Helper()
	reg := metrics.NewRegistry()
	aiClient := &stubAI{}
	gc, err := graph.NewGraphClient(graph.NewGraphClientParams{
		AIClient: aiClient,
		Storage:  memory.NewGraphMemoryStorage(common.AutoCreateEndpoints),
		Sampling: graph.DefaultSampling(),
		Recorder: reg,
	})
	if err != nil {
		t.Fatalf("NewGraphClient() error = %v", err)
	}
	pub := &stubPublisher{}
	return &worker{
		news:     &stubNews{articles: []common.Article{{Title: "t", Content: "Apple partnered with OpenAI."}}},
		graph:    gc,
		aiClient: aiClient,
		ch:       pub,
		metrics:  reg,
	}, pub
}

func scrape(t *testing.T, w *worker) string {
	t.Helper()
	srv := newMetricsServer("0", w.metrics)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestWorkerMetricsReportProcessedArticle(t *testing.T) {
	w, pub := newTestWorker(t)
	ack := &stubAcknowledger{}

	w.handle(context.Background(), amqp091.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"id":"j1","query":"Apple"}`),
	})

	if ack.acks != 1 || len(pub.sent) != 0 {
		t.Fatalf("expected a plain ack, got acks=%d sent=%+v", ack.acks, pub.sent)
	}

	body := scrape(t, w)
	for _, want := range []string{
		`newsgraph_articles_total{outcome="processed"} 1`,
		`newsgraph_extracted_records_total{kind="entity"} 2`,
		`newsgraph_queue_jobs_total{queue="ingest_queue",status="done"} 1`,
		`newsgraph_model_requests_total 2`,
		`newsgraph_run_duration_seconds_count 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q in:\n%s", want, body)
		}
	}

	if m := w.aiClient.GetMetrics(); m.Requests != 0 {
		t.Fatalf("expected model usage to be reset, got %+v", m)
	}
}

func TestWorkerDeadLettersInvalidJob(t *testing.T) {
	w, pub := newTestWorker(t)
	ack := &stubAcknowledger{}

	w.handle(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: []byte(`{"page_size":3}`)})

	if len(pub.sent) != 1 || pub.sent[0].key != queue.IngestQueue+"_dlq" {
		t.Fatalf("expected message in dead-letter queue, got %+v", pub.sent)
	}
	if ack.acks != 1 {
		t.Fatalf("expected original delivery to be acked")
	}
	if body := scrape(t, w); !strings.Contains(body, `newsgraph_queue_jobs_total{queue="ingest_queue",status="dead"} 1`) {
		t.Fatalf("dead job not counted:\n%s", body)
	}
}

func TestJobStatus(t *testing.T) {
	tests := map[string]string{
		queue.IngestQueue + "_dlq":   "dead",
		queue.IngestQueue + "_retry": "retried",
		queue.IngestQueue:            "requeued",
	}
	for target, want := range tests {
		if got := jobStatus(target); got != want {
			t.Fatalf("jobStatus(%s) = %s, want %s", target, got, want)
		}
	}
}
