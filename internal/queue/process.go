package queue

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/news"
)

// ProcessIngestMessage runs one queued ingest job: fetch the articles, then
// extract and persist their entities and relationships.
func ProcessIngestMessage(
	ctx context.Context,
	newsClient news.NewsClient,
	graphClient *graph.GraphClient,
	body []byte,
) (*graph.RunResult, error) {
	job, err := DecodeIngestJob(body)
	if err != nil {
		return nil, err
	}

	logger.Info("[Queue] Processing ingest job", "job_id", job.ID, "query", job.Query)

	articles, err := newsClient.FetchArticles(ctx, news.Query{
		Q:        job.Query,
		From:     job.From,
		To:       job.To,
		Language: job.Language,
		PageSize: job.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	if len(articles) == 0 {
		logger.Warn("[Queue] No articles found", "job_id", job.ID, "query", job.Query)
		return nil, nil
	}

	res, err := graphClient.ProcessArticles(ctx, articles)
	if err != nil {
		return res, fmt.Errorf("failed to process articles: %w", err)
	}

	logger.Info(
		"[Queue] Ingest job finished",
		"job_id", job.ID,
		"run_id", res.RunID,
		"processed", res.Processed,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"entities_saved", res.EntitiesSaved,
		"relationships_saved", res.RelationshipsSaved,
	)
	return res, nil
}
